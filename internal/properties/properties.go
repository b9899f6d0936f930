package properties

import (
	"os"
	"strconv"
)

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func CopernicusClientID() string {
	return os.Getenv("COPERNICUS_CLIENT_ID")
}

func CopernicusClientSecret() string {
	return os.Getenv("COPERNICUS_CLIENT_SECRET")
}

func CopernicusTokenURL() string {
	return os.Getenv("COPERNICUS_TOKEN_URL")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}

func floatEnv(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

// SnowlineElevation is the threshold elevation (meters) for the glacier
// thickness proxy.
func SnowlineElevation() float64 {
	return floatEnv("SNOWLINE_ELEVATION", 4500)
}

// VelocityFactor scales the thickness proxy into the velocity proxy.
func VelocityFactor() float64 {
	return floatEnv("VELOCITY_FACTOR", 0.8)
}

// WaterIndexThreshold is the NDWI cutoff for the surface-water mask.
func WaterIndexThreshold() float64 {
	return floatEnv("WATER_INDEX_THRESHOLD", 0.3)
}

// MaxCloudCover is the per-scene cloud fraction above which a scene is
// excluded from cloud-filtered composites.
func MaxCloudCover() float64 {
	return floatEnv("MAX_CLOUD_COVER", 0.2)
}

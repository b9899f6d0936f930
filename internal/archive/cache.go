package archive

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
)

// SceneCache stores fetched GeoTIFF scenes on disk so repeated runs over the
// same study area and date range skip the archive entirely.
type SceneCache struct {
	cacheDir string
}

func NewSceneCache(subDir string) *SceneCache {
	return &SceneCache{cacheDir: filepath.Join(properties.RootPath(), "data", subDir)}
}

func (sc *SceneCache) GenerateKey(params ...interface{}) string {
	var keyData string
	for _, param := range params {
		keyData += fmt.Sprintf("%v_", param)
	}
	h := sha1.New()
	h.Write([]byte(keyData))
	return hex.EncodeToString(h.Sum(nil))
}

// Path returns the on-disk location for a key whether or not it exists yet.
func (sc *SceneCache) Path(key string) string {
	return filepath.Join(sc.cacheDir, key+".tiff")
}

func (sc *SceneCache) Get(key string) (string, bool) {
	path := sc.Path(key)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func (sc *SceneCache) Set(key string, data []byte) (string, error) {
	if err := os.MkdirAll(sc.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %v", err)
	}

	path := sc.Path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp cache file: %v", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename temp cache file: %v", err)
	}
	return path, nil
}

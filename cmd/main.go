package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/archive"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/boundary"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/delivery"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
)

const (
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
	colorReset = "\033[0m"
)

func printBanner() {
	figure1 := figure.NewFigure("Watershed", "isometric1", true)
	figure2 := figure.NewFigure("Guardian", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

func readString(prompt, fallback string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s%s [%s]: %s", colorBlue, prompt, fallback, colorReset)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return fallback
	}
	return input
}

func readDate(prompt string, fallback time.Time) time.Time {
	for {
		input := readString(prompt, fallback.Format("2006-01-02"))
		parsed, err := time.Parse("2006-01-02", input)
		if err == nil {
			return parsed
		}
		fmt.Printf("%sInvalid date, expected YYYY-MM-DD.%s\n", colorRed, colorReset)
	}
}

func buildPipeline() (*delivery.Pipeline, error) {
	name := readString("Watershed boundary", "langtang")
	watershed, err := boundary.Load(name)
	if err != nil {
		return nil, err
	}
	glaciers, err := boundary.LoadFeature(name+"_glaciers", "")
	if err != nil {
		fmt.Printf("%sNo glacier extents for %s, continuing without them.%s\n", colorRed, name, colorReset)
		glaciers = watershed
	}

	return delivery.NewPipeline(
		watershed,
		glaciers,
		archive.NewCopernicusSource("sentinel-2-l2a"),
		archive.NewCopernicusSource("dem"),
		archive.NewCopernicusSource("global-precipitation"),
		archive.NewCopernicusSource("landsat-ot-l2"),
	), nil
}

type menuOption struct {
	title   string
	handler func() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on environment variables")
	}
	if properties.RootPath() == "" {
		fmt.Println("ROOT_PATH is not set")
		os.Exit(1)
	}
	godal.RegisterAll()
	printBanner()

	ctx := context.Background()
	defaultFrom := time.Now().AddDate(0, -3, 0)
	defaultTo := time.Now()

	menuOptions := []menuOption{
		{"Map surface water extent for a date range", func() error {
			p, err := buildPipeline()
			if err != nil {
				return err
			}
			from := readDate("Start date", defaultFrom)
			to := readDate("End date", defaultTo)
			return p.RunWaterMapping(ctx, from, to, properties.MaxCloudCover(), properties.WaterIndexThreshold())
		}},
		{"Derive terrain and glacier proxy layers", func() error {
			p, err := buildPipeline()
			if err != nil {
				return err
			}
			_, _, _, err = p.RunTerrain(ctx)
			return err
		}},
		{"Build precipitation and temperature climatology", func() error {
			p, err := buildPipeline()
			if err != nil {
				return err
			}
			yearTo := time.Now().Year() - 1
			return p.RunClimatology(ctx, yearTo-9, yearTo)
		}},
		{"Classify rockfall and GLOF hazards", func() error {
			p, err := buildPipeline()
			if err != nil {
				return err
			}
			from := readDate("Start date", defaultFrom)
			to := readDate("End date", defaultTo)
			rockfall := readString("Rockfall training file", "rockfall_points.csv")
			glof := readString("GLOF training file", "glof_points.csv")
			return p.RunHazards(ctx, rockfall, glof, from, to)
		}},
		{"Run the full indicator suite", func() error {
			p, err := buildPipeline()
			if err != nil {
				return err
			}
			from := readDate("Start date", defaultFrom)
			to := readDate("End date", defaultTo)
			yearTo := time.Now().Year() - 1
			return p.RunAll(ctx, from, to, yearTo-9, yearTo, "rockfall_points.csv", "glof_points.csv")
		}},
		{"View the list of available watersheds", func() error {
			names, err := boundary.List()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(" -", n)
			}
			return nil
		}},
		{"Exit the application", func() error {
			fmt.Println("Exiting...")
			os.Exit(0)
			return nil
		}},
	}

	for {
		fmt.Println(colorBlue + "===================" + colorReset)
		for i, opt := range menuOptions {
			fmt.Printf("%s%d. %s%s\n", colorBlue, i+1, opt.title, colorReset)
		}
		fmt.Println(colorBlue + "Please enter your choice:" + colorReset)

		var choice int
		_, err := fmt.Scan(&choice)
		if err != nil {
			fmt.Printf("\n%sInvalid input. Please enter a number.%s\n", colorRed, colorReset)
			fmt.Scanln()
			continue
		}
		if choice < 1 || choice > len(menuOptions) {
			fmt.Println(colorRed + "Invalid choice. Please try again." + colorReset)
			continue
		}
		if err := menuOptions[choice-1].handler(); err != nil {
			fmt.Printf("\n%sError: %v%s\n", colorRed, err, colorReset)
		}
	}
}

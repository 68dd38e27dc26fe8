// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"webtg/internal/catalog"
	"webtg/internal/engine"
	"webtg/internal/export"
	"webtg/internal/models"
	"webtg/internal/site"
	"webtg/internal/slug"
	"webtg/internal/storage"
)

var genFlags struct {
	template string
	brand    string
	pages    int
	theme    string
	accent   string
	out      string
	zip      bool
	publish  bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a site and write its pages to a directory",
	Example: `  webtg generate --template gym-zen --brand "Acme Fitness" --pages 6
  webtg generate --template bank-core --theme light --zip`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if genFlags.template != "" && !catalog.Exists(genFlags.template) {
			return fmt.Errorf("unknown template %q", genFlags.template)
		}

		eng, err := engine.New()
		if err != nil {
			return fmt.Errorf("load document templates: %w", err)
		}

		now := time.Now()
		payload := site.NewPayload(site.Input{
			TemplateID: genFlags.template,
			Theme:      genFlags.theme,
			Accent:     genFlags.accent,
			Brand:      genFlags.brand,
			Pages:      genFlags.pages,
		}, now)

		gen, err := site.NewAssembler(eng).Assemble(payload, nil)
		if err != nil {
			return fmt.Errorf("assemble site: %w", err)
		}
		files, err := export.Files(gen)
		if err != nil {
			return err
		}

		dir := genFlags.out
		if dir == "" {
			dir = slug.ForSite(payload.Brand, payload.TemplateID, now)
		}
		if err := writeFiles(dir, files); err != nil {
			return err
		}
		fmt.Printf("Generated %d-page website: %s -> %s\n", payload.PageCount, payload.TemplateName, dir)

		if genFlags.zip {
			name := dir + ".zip"
			if err := writeArchive(name, files, now); err != nil {
				return err
			}
			fmt.Println("Archive:", name)
		}

		if genFlags.publish {
			client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
			if err != nil {
				return fmt.Errorf("storage client: %w", err)
			}
			if client == nil {
				return fmt.Errorf("publishing needs s3_endpoint, s3_bucket and credentials")
			}
			url, err := client.PublishSite(context.Background(), filepath.Base(dir), files)
			if err != nil {
				return err
			}
			fmt.Println("Published:", url)
		}
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genFlags.template, "template", "t", "", "template id (default: first in catalog)")
	f.StringVarP(&genFlags.brand, "brand", "b", "", "brand name")
	f.IntVarP(&genFlags.pages, "pages", "n", 4, "number of pages (4-9)")
	f.StringVar(&genFlags.theme, "theme", string(models.ThemeDark), "dark or light")
	f.StringVar(&genFlags.accent, "accent", "", "accent color as #rrggbb")
	f.StringVarP(&genFlags.out, "out", "o", "", "output directory (default: derived from brand and template)")
	f.BoolVar(&genFlags.zip, "zip", false, "also write a zip archive")
	f.BoolVar(&genFlags.publish, "publish", false, "upload the pages to the configured S3 bucket")
	rootCmd.AddCommand(generateCmd)
}

// writeFiles writes every page into dir, showing progress.
func writeFiles(dir string, files []export.File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Writing pages"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
		bar.Add(1)
	}
	return bar.Finish()
}

func writeArchive(name string, files []export.File, modified time.Time) error {
	out, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := export.Archive(out, files, modified); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package config

// Default returns a Config populated with curateur's built-in defaults.
// Load starts from this value and overlays whatever the TOML file sets.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogRoot: "",
			MediaRoot:   "",
		},
		Regions: Regions{
			Preferred: []string{"us", "wor", "eu", "jp"},
		},
		Languages: Languages{
			Preferred: []string{"en"},
		},
		Media: Media{
			EnabledTypes:      []string{"box-2D", "ss", "sstitle", "screenmarquee", "wheel", "fanart"},
			Validation:        "normal",
			SkipExistingMedia: true,
			MinImageSide:      64,
			MinFileSizeBytes:  256,
		},
		Scraping: Scraping{
			UpdatePolicy:       "changed_only",
			SkipScraped:        false,
			MergePolicy:        "preserve_user_edits",
			IntegrityThreshold: 0.9,
			NameVerification:   "normal",
			CheckpointInterval: 100,
		},
		Search: Search{
			EnableFallback: true,
			Threshold:      0.75,
			MaxResults:     10,
			Interactive:    true,
		},
		API: API{
			RequestTimeoutSeconds: 30,
			MaxRetries:            3,
			InitialRetryDelaySec:  1.0,
			QuotaWarningRatio:     0.9,
			Override: Override{
				MaxWorkers:        0,
				RequestsPerMinute: 0,
				DailyQuota:        0,
			},
		},
		Runtime: Runtime{
			HashAlgorithm:    "CRC32",
			HashSizeCapBytes: 0,
			DryRun:           false,
			MaxWorkers:       4,
		},
		Provider: Provider{
			BaseURL: "",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

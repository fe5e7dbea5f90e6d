package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aligator/fatdir"
	"github.com/aligator/fatdir/checkpoint"
)

var (
	configPath string
	logLevel   string
	verbose    bool

	cfg Config
)

var rootCmd = &cobra.Command{
	Use:           "fatdir",
	Short:         "Inspect the directories of a FAT12/16/32 image",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fatdir.yaml", "path of the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print the checkpoint trace of errors")

	rootCmd.AddCommand(lsCmd, treeCmd, catCmd, statCmd, infoCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// withVolume opens the image and runs fn with its volume.
func withVolume(path string, fn func(vol *fatdir.Volume) error) error {
	img, err := openImage(path)
	if err != nil {
		return err
	}
	defer img.Close()

	vol, err := fatdir.Open(img, cfg.Options()...)
	if err != nil {
		return checkpoint.Wrap(err, fmt.Errorf("open volume %s", path))
	}
	return fn(vol)
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pdfqa/internal/client"
)

const defaultServer = "http://localhost:3001/api"

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "pdfqa",
		Short:         "Upload PDFs and ask questions about them",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pdfqa.yaml)")
	rootCmd.PersistentFlags().String("server", defaultServer, "base URL of the pdfqa API")
	rootCmd.PersistentFlags().Duration("timeout", 2*time.Minute, "request timeout")
	_ = v.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	rootCmd.AddCommand(
		newUploadCmd(v),
		newAskCmd(v),
		newChatCmd(v),
	)
	return rootCmd
}

// initConfig reads an optional config file and PDFQA_* environment variables.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("pdfqa")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".pdfqa")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config failed: %w", err)
	}
	return nil
}

func newClient(v *viper.Viper) *client.Client {
	return client.New(v.GetString("server"), &http.Client{Timeout: v.GetDuration("timeout")})
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"freeresumetools/internal/bootstrap"
	"freeresumetools/internal/shared/config"
	"freeresumetools/internal/tools"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Upload a resume and invoke a tool webhook once",
	Long:  "Upload a resume to the configured object store, post it to the tool's processing webhook and print the outcome as JSON.",
	RunE:  runSubmit,
}

var (
	submitTool           string
	submitFile           string
	submitJobDescription string
	submitJobDescFile    string
)

func init() {
	submitCmd.Flags().StringVarP(&submitTool, "tool", "t", tools.Fix, "Tool name: tailoring, job-match or fix")
	submitCmd.Flags().StringVarP(&submitFile, "file", "f", "", "Path to the resume file (required)")
	submitCmd.Flags().StringVar(&submitJobDescription, "job-description", "", "Job description text")
	submitCmd.Flags().StringVar(&submitJobDescFile, "job-description-file", "", "Read the job description from a file")
	_ = submitCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	if submitJobDescription != "" && submitJobDescFile != "" {
		return fmt.Errorf("cannot use --job-description with --job-description-file")
	}
	jobDescription := submitJobDescription
	if submitJobDescFile != "" {
		data, err := os.ReadFile(submitJobDescFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(data)
	}

	f, err := os.Open(submitFile)
	if err != nil {
		return fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	app, err := bootstrap.Build(config.Load())
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	out, err := app.ToolsService.Submit(context.Background(), "cli", submitTool, tools.SubmitRequest{
		FileName:       filepath.Base(submitFile),
		Body:           f,
		JobDescription: jobDescription,
	})
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(out); encErr != nil {
		return encErr
	}
	return err
}

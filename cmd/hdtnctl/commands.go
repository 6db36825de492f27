package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"HDTN/pkg/taskclient"

	"github.com/spf13/cobra"
)

var (
	serverURL  string
	jsonOutput bool
	userID     string
	taskID     string
)

// rootCmd is the task board command line client
var rootCmd = &cobra.Command{
	Use:           "hdtnctl",
	Short:         "Command line client for the HDTN task board",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List open tasks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := client().ListTasks(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), list)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tLOCATION")
		for _, t := range list {
			fmt.Fprintf(w, "%s\t%s\t%.3f,%.3f\n", t.ID, t.Title, t.Lat, t.Lng)
		}
		return w.Flush()
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply for a task",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := client().Apply(cmd.Context(), userID, taskID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	},
}

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List the tasks a user applied for",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := client().Applications(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), list)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tAPPLIED")
		for _, a := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.Title, a.AppliedAt.Local().Format(time.RFC822))
		}
		return w.Flush()
	},
}

func init() {
	defaultURL := os.Getenv("HDTN_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "task board base URL (env HDTN_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON")

	applyCmd.Flags().StringVar(&userID, "user", "", "applicant participant id")
	applyCmd.Flags().StringVar(&taskID, "task", "", "task id")
	_ = applyCmd.MarkFlagRequired("user")
	_ = applyCmd.MarkFlagRequired("task")

	applicationsCmd.Flags().StringVar(&userID, "user", "", "participant id")
	_ = applicationsCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tasksCmd, applyCmd, applicationsCmd)
}

func client() *taskclient.Client {
	return taskclient.New(serverURL)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

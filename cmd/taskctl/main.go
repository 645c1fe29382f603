// taskctl is the command-line companion for the taskboard server: quick
// CRUD subcommands plus a terminal Kanban board.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskboard/backend/client"
	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage tasks on a taskboard server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("addr", "http://127.0.0.1:8080", "server base URL")
	root.PersistentFlags().Duration("timeout", client.DefaultTimeout, "per-request timeout")

	viper.SetEnvPrefix("TASKBOARD")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("addr", root.PersistentFlags().Lookup("addr"))
	_ = viper.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newMoveCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newBoardCmd(),
	)
	return root
}

func apiClient() *client.Client {
	return client.New(
		strings.TrimRight(viper.GetString("addr"), "/"),
		client.WithTimeout(viper.GetDuration("timeout")),
	)
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <content>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := apiClient().CreateTask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("created %s  %s\n", task.ID, task.Title())
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := apiClient().ListTasks(cmd.Context(), domain.Status(status))
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("no tasks")
				return nil
			}
			for _, t := range tasks {
				created := time.UnixMilli(t.CreatedAt).Format("2006-01-02 15:04")
				fmt.Printf("%s  %-11s  %s  %s\n", t.ID, t.Status, created, t.Title())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (todo, in-progress, completed)")
	return cmd
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := apiClient().UpdateTaskStatus(cmd.Context(), args[0], domain.Status(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("moved %s to %s\n", task.ID, task.Status)
			return nil
		},
	}
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <content>",
		Short: "Replace a task's content",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args[1:], " ")
			task, err := apiClient().UpdateTask(cmd.Context(), args[0], client.TaskPatch{Content: &content})
			if err != nil {
				return err
			}
			fmt.Printf("updated %s  %s\n", task.ID, task.Title())
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient().DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive Kanban board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return ui.Run(ctx, apiClient())
		},
	}
}

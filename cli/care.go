package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/stsysd/plantcare/care"
	"github.com/stsysd/plantcare/model"
)

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseCareDate は --on の値を YYYY-MM-DD に変換します。
// 空文字列は空のまま返し、サーバー側で今日として扱われます。
// "yesterday" や "3 days ago" のような表現も受け付けます。
func parseCareDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if t, err := model.ParseDate(input); err == nil {
		return model.FormatDate(t), nil
	}

	r, err := dateParser.Parse(input, now.UTC())
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", input, err)
	}
	if r == nil {
		return "", fmt.Errorf("invalid date %q: use YYYY-MM-DD or a phrase like \"yesterday\"", input)
	}
	if r.Time.After(now) {
		return "", fmt.Errorf("date %s is in the future", model.FormatDate(r.Time))
	}
	return model.FormatDate(r.Time), nil
}

func newCareCommand(action model.CareAction, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use + " PLANT...",
		GroupID: "care",
		Short:   short,
		Example: fmt.Sprintf(`  plantcare %[1]s Aloe
  plantcare %[1]s Aloe Haworthia --on yesterday
  plantcare %[1]s 3f1c... --on 2025-06-01`, use),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, _ := cmd.Flags().GetString("on")
			date, err := parseCareDate(on, time.Now())
			if err != nil {
				return err
			}

			s, err := loadSynchronizer(cmd.Context())
			if err != nil {
				return err
			}

			plants := s.Plants()
			targets := make([]*model.Plant, 0, len(args))
			for _, arg := range args {
				p, err := findPlant(plants, arg)
				if err != nil {
					return err
				}
				targets = append(targets, p)
			}

			for _, p := range targets {
				var log *model.CareLog
				if action == model.ActionWatering {
					log, err = s.Water(cmd.Context(), p.ID, date)
				} else {
					log, err = s.Fertilize(cmd.Context(), p.ID, date)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", p.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", actionEmoji(log.Action), p.Name, log.CreatedAt)
			}
			return nil
		},
	}
	cmd.Flags().String("on", "", `care date, e.g. 2025-06-01 or "2 days ago" (default today)`)
	return cmd
}

func actionEmoji(action model.CareAction) string {
	if action == model.ActionFertilizing {
		return "🌿"
	}
	return "💧"
}

var logsCmd = &cobra.Command{
	Use:     "logs",
	GroupID: "care",
	Short:   "Show the newest care logs",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := newClient().ListCareLogs(cmd.Context())
		if err != nil {
			return err
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(logs) > limit {
			logs = logs[:limit]
		}
		if len(logs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No care logs yet."))
			return nil
		}

		t := newTable("WHEN", "PLANT", "ACTION")
		for _, l := range logs {
			t.Row(l.CreatedAt, l.PlantName, actionEmoji(l.Action)+" "+string(l.Action))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var dueCmd = &cobra.Command{
	Use:     "due",
	GroupID: "care",
	Short:   "Show what needs watering or fertilizing today",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSynchronizer(cmd.Context())
		if err != nil {
			return err
		}
		report, skipped := s.Due(time.Now())
		printTodo(cmd, report.Todo)
		printSkipped(cmd, skipped)
		return nil
	},
}

func printTodo(cmd *cobra.Command, todo *care.Todo) {
	out := cmd.OutOrStdout()
	if todo.Len() == 0 {
		fmt.Fprintln(out, titleStyle.Render("🎉 Nothing to do on "+todo.Date))
		return
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d care tasks for %s", todo.Len(), todo.Date)))
	sections := []struct {
		title string
		tasks []care.Task
	}{
		{"💧 Water", todo.Water},
		{"🌿 Fertilize", todo.Fertilize},
	}
	for _, sec := range sections {
		if len(sec.tasks) == 0 {
			continue
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, headerStyle.Render(sec.title))
		for _, task := range sec.tasks {
			fmt.Fprintf(out, "  %s %s\n", task.PlantName, mutedStyle.Render(fmt.Sprintf("(%d days)", task.DaysSince)))
		}
	}
}

func init() {
	logsCmd.Flags().IntP("limit", "n", 0, "show at most N logs")

	rootCmd.AddCommand(
		newCareCommand(model.ActionWatering, "water", "Record a watering"),
		newCareCommand(model.ActionFertilizing, "fertilize", "Record a fertilizing"),
		logsCmd,
		dueCmd,
	)
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gubarz/studymd/internal/config"
	"github.com/gubarz/studymd/internal/store"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Record and show daily study time",
}

var activityRecordCmd = &cobra.Command{
	Use:   "record <seconds>",
	Short: "Add seconds to a day's counter",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivityRecord,
}

var activityShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show recent daily totals",
	Args:  cobra.NoArgs,
	RunE:  runActivityShow,
}

func init() {
	activityCmd.AddCommand(activityRecordCmd, activityShowCmd)

	activityCmd.PersistentFlags().StringP("user", "u", "", "User id (default $USER)")
	activityRecordCmd.Flags().String("date", "", "Day as YYYY-MM-DD (default today, UTC)")
	activityShowCmd.Flags().Int("days", 7, "Number of days to show, ending today")
}

func activityUser(cmd *cobra.Command) string {
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		return user
	}
	return config.GetUser()
}

func runActivityRecord(cmd *cobra.Command, args []string) error {
	seconds, err := parseSeconds(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	day, _ := cmd.Flags().GetString("date")
	if day == "" {
		day = st.Today()
	}

	activity, err := st.RecordActivity(ctx, activityUser(cmd), day, seconds)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"user":  activity.UserID,
		"date":  activity.Day,
		"total": (time.Duration(activity.SecondsActive) * time.Second).String(),
	}).Info("activity recorded")
	return nil
}

// parseSeconds accepts a bare number of seconds or a duration like 25m
func parseSeconds(arg string) (int64, error) {
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", arg)
	}
	return int64(d / time.Second), nil
}

func runActivityShow(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -(days - 1))
	user := activityUser(cmd)

	rows, err := st.ListActivity(ctx, user, from.Format(store.DayLayout), to.Format(store.DayLayout))
	if err != nil {
		return err
	}

	var total int64
	out := cmd.OutOrStdout()
	for _, a := range rows {
		total += a.SecondsActive
		fmt.Fprintf(out, "%s  %s\n", a.Day, time.Duration(a.SecondsActive)*time.Second)
	}
	fmt.Fprintf(out, "total       %s\n", time.Duration(total)*time.Second)

	logger.WithFields(logrus.Fields{"user": user, "days": len(rows)}).Debug("activity listed")
	return nil
}

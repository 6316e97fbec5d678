package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted walkthrough of the reservation workflow",
	Long: `Run a scripted walkthrough against a fresh store: sign-ups and
logins for each role, delegated room registration, schedule
announcements, overlapping and touching reservations, a
cancellation, and the admin's audit log view.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	// Account creation for one user of each role.
	accounts := []application.SignUpParams{
		{Username: "user1", Secret: "password1", Role: application.RoleUser},
		{Username: "manager1", Secret: "password2", Role: application.RoleManager},
		{Username: "admin1", Secret: "password3", Role: application.RoleAdmin},
	}
	for _, params := range accounts {
		if _, err := app.directory.SignUp(ctx, params); err != nil {
			return fmt.Errorf("sign-up for %s failed: %w", params.Username, err)
		}
		fmt.Fprintf(out, "%s %s signed up\n", params.Role, params.Username)
	}

	// A second sign-up with a taken username is refused.
	if _, err := app.directory.SignUp(ctx, accounts[0]); !errors.Is(err, application.ErrDuplicateUsername) {
		return fmt.Errorf("expected duplicate username rejection, got %v", err)
	}
	fmt.Fprintln(out, "duplicate sign-up for user1 rejected")

	user, err := app.directory.Login(ctx, "user1", "password1")
	if err != nil {
		return fmt.Errorf("login for user1 failed: %w", err)
	}
	manager, err := app.directory.Login(ctx, "manager1", "password2")
	if err != nil {
		return fmt.Errorf("login for manager1 failed: %w", err)
	}
	admin, err := app.directory.Login(ctx, "admin1", "password3")
	if err != nil {
		return fmt.Errorf("login for admin1 failed: %w", err)
	}
	fmt.Fprintln(out, "all three accounts logged in")

	// The manager cannot touch the registry directly and delegates to the
	// admin instead.
	for _, number := range []string{"101", "102"} {
		if _, err := app.registry.DelegateAddRoom(ctx, manager, admin, application.RoomInput{Number: number}); err != nil {
			return fmt.Errorf("delegated add for room %s failed: %w", number, err)
		}
		fmt.Fprintf(out, "room %s registered via delegation\n", number)
	}

	day := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	businessHours := booking.Window{Start: day.Add(8 * time.Hour), End: day.Add(18 * time.Hour)}
	for _, number := range []string{"101", "102"} {
		if err := app.registry.AddSchedule(ctx, manager, number, businessHours); err != nil {
			return fmt.Errorf("schedule announcement for room %s failed: %w", number, err)
		}
	}
	fmt.Fprintln(out, "manager announced operating windows for both rooms")

	first, err := app.reservations.MakeReservation(ctx, user, "101", day.Add(9*time.Hour), day.Add(11*time.Hour))
	if err != nil {
		return fmt.Errorf("reservation for room 101 failed: %w", err)
	}
	fmt.Fprintf(out, "user1 reserved room 101 from %s to %s\n", clock(first.Start), clock(first.End))

	if _, err := app.reservations.MakeReservation(ctx, manager, "102", day.Add(10*time.Hour), day.Add(12*time.Hour)); err != nil {
		return fmt.Errorf("reservation for room 102 failed: %w", err)
	}
	fmt.Fprintln(out, "manager1 reserved room 102 for an overlapping window on a different room")

	// An overlapping window on the same room is refused.
	if _, err := app.reservations.MakeReservation(ctx, manager, "101", day.Add(10*time.Hour), day.Add(12*time.Hour)); !errors.Is(err, application.ErrRoomUnavailable) {
		return fmt.Errorf("expected room 101 to be unavailable, got %v", err)
	}
	fmt.Fprintln(out, "overlapping reservation on room 101 refused")

	// A touching window is not an overlap.
	if _, err := app.reservations.MakeReservation(ctx, manager, "101", day.Add(11*time.Hour), day.Add(13*time.Hour)); err != nil {
		return fmt.Errorf("touching reservation on room 101 failed: %w", err)
	}
	fmt.Fprintln(out, "back-to-back reservation on room 101 accepted")

	if err := app.reservations.CancelReservation(ctx, user, first.ID); err != nil {
		return fmt.Errorf("cancellation failed: %w", err)
	}
	free, err := app.reservations.CheckAvailability(ctx, "101", first.Start, first.End)
	if err != nil {
		return fmt.Errorf("availability check failed: %w", err)
	}
	fmt.Fprintf(out, "user1 cancelled; room 101 available again: %t\n", free)

	fmt.Fprintln(out, app.directory.ScanQRCode(ctx, user))

	entries, err := app.registry.ViewLogs(ctx, admin)
	if err != nil {
		return fmt.Errorf("audit log view failed: %w", err)
	}
	fmt.Fprintln(out, "audit log:")
	for _, entry := range entries {
		fmt.Fprintf(out, "  %3d  %s\n", entry.Seq, entry.Message)
	}

	printReservations(out, "user1", mustList(ctx, app, user))
	printReservations(out, "manager1", mustList(ctx, app, manager))

	return nil
}

func mustList(ctx context.Context, app *app, user application.User) []application.Reservation {
	reservations, err := app.reservations.ListReservations(ctx, user)
	if err != nil {
		return nil
	}
	return reservations
}

func printReservations(out io.Writer, username string, reservations []application.Reservation) {
	fmt.Fprintf(out, "%s holds %d reservation(s)\n", username, len(reservations))
	for _, reservation := range reservations {
		fmt.Fprintf(out, "  room %s  %s - %s\n", reservation.RoomNumber, clock(reservation.Start), clock(reservation.End))
	}
}

func clock(t time.Time) string {
	return t.UTC().Format("15:04")
}

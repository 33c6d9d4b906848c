package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"alcyxob/gym-backoffice/internal/domain"
	"alcyxob/gym-backoffice/internal/fakeapi"

	"github.com/rs/zerolog/log"
)

// runServe runs the in-memory backend until the process is interrupted.
func runServe(ctx context.Context, _ *app, args []string) error {
	fs := subcommand("serve")
	addr := fs.String("addr", ":8080", "listen address")
	email := fs.String("email", "admin@gym.local", "demo operator email")
	password := fs.String("password", "admin123", "demo operator password")
	secret := fs.String("secret", "", "token signing secret")
	ttl := fs.Duration("token-ttl", time.Hour, "token lifetime")
	seed := fs.Bool("seed", true, "load demo members, equipment and support queries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []fakeapi.Option{fakeapi.WithTokenTTL(*ttl)}
	if *secret != "" {
		opts = append(opts, fakeapi.WithSecret(*secret))
	}
	backend := fakeapi.New(opts...)
	if _, err := backend.Store().AddOperator("Front Desk", *email, *password); err != nil {
		return err
	}
	if *seed {
		if err := seedStore(backend.Store()); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      backend.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", *addr).Str("operator", *email).Msg("backend started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}

func seedStore(store *fakeapi.Store) error {
	members := []domain.Member{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "5550100001", CountryCode: "+1",
			Gender: domain.GenderFemale, DateOfBirth: "1990-04-12", Weight: 140, SubscriptionType: domain.SubscriptionMonthly,
			DateOfJoining: "2024-01-08", HealthInfo: domain.NoHealthIssues, Status: true},
		{FirstName: "Omar", LastName: "Haddad", Email: "omar@example.com", Phone: "5550100002", CountryCode: "+1",
			Gender: domain.GenderMale, DateOfBirth: "1985-09-30", Weight: 182.5, SubscriptionType: domain.SubscriptionYearly,
			DateOfJoining: "2023-06-19", HealthInfo: "Knee surgery 2022", Status: true},
		{FirstName: "Mei", LastName: "Chen", Email: "mei@example.com", Phone: "5550100003", CountryCode: "+44",
			Gender: domain.GenderFemale, DateOfBirth: "2001-02-03", Weight: 118, SubscriptionType: domain.SubscriptionQuarterly,
			DateOfJoining: "2024-03-01", HealthInfo: domain.NoHealthIssues, Status: false},
	}
	for _, m := range members {
		if _, err := store.CreateMember(m); err != nil {
			return err
		}
	}

	equipment := []domain.Equipment{
		{Name: "Treadmill", Number: "TM-01", Category: domain.CategoryAerobic},
		{Name: "Rowing machine", Number: "RW-01", Category: domain.CategoryAerobic},
		{Name: "Bench press", Number: "BP-01", Category: domain.CategoryExercise},
		{Name: "Squat rack", Number: "SR-01", Category: domain.CategoryExercise},
	}
	for _, e := range equipment {
		if _, err := store.CreateEquipment(e); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	store.AddSupport(domain.SupportQuery{SenderID: "MEM001", Email: "jane@example.com", Query: "Can I freeze my membership for a month?", CreatedAt: now.Add(-48 * time.Hour)})
	store.AddSupport(domain.SupportQuery{SenderID: "MEM002", Query: "The rowing machine display is broken.", CreatedAt: now.Add(-2 * time.Hour)})
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/notify"
	"github.com/robalyx/assigner/internal/redis"
	"github.com/robalyx/assigner/internal/setup"
	"github.com/robalyx/assigner/internal/setup/telemetry"
)

// session holds everything a command needs to talk to the engine.
type session struct {
	app        *setup.App
	store      *setup.RotationStore
	dispatcher *notify.Dispatcher
	engine     *assign.Engine
}

// withSession initializes the application, runs fn and cleans up afterwards.
func withSession(ctx context.Context, fn func(ctx context.Context, s *session) error) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceAssigner, AssignerLogDir, "")
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.WithoutCancel(ctx))

	store, err := setup.NewRotationStore(&app.Config.Assigner.Rotation, app.DB, app.RedisManager, app.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := app.RedisManager.GetClient(redis.NotificationDBIndex)
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(notify.NewQueue(client, app.Logger), 0, app.Logger)
	defer dispatcher.Wait()

	ctx, cancel := context.WithTimeout(ctx, telemetry.ServiceAssigner.GetRequestTimeout(app.Config))
	defer cancel()

	return fn(ctx, &session{
		app:        app,
		store:      store,
		dispatcher: dispatcher,
		engine:     app.NewEngine(store, dispatcher),
	})
}

// Command avatarcall creates an avatar session, joins its call room and
// renders the call state to the terminal until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openmeet/avatarcall/config"
	"github.com/openmeet/avatarcall/render"
	"github.com/openmeet/avatarcall/room"
	"github.com/openmeet/avatarcall/session"
	"github.com/openmeet/avatarcall/signaling"
)

const leaveTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("avatarcall failed")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logrus.SetLevel(cfg.ParseLevel())
	logrus.SetOutput(os.Stderr)

	sessions, err := session.NewClient(cfg.SessionURL, nil)
	if err != nil {
		return err
	}

	sess, err := sessions.StartSession(ctx, session.Request{
		APIKey:    cfg.APIKey,
		FaceID:    cfg.FaceID,
		Intro:     cfg.Intro,
		Prompt:    cfg.Prompt,
		TimeLimit: session.TimeLimit{Limit: cfg.TimeLimit},
		UserName:  cfg.UserName,
		VoiceID:   cfg.VoiceID,
	})
	if err != nil {
		return err
	}

	client := signaling.NewClient()
	surface := render.NewConsole()

	controller, err := room.NewController(client, surface)
	if err != nil {
		return err
	}
	controller.SetUserName(cfg.UserName)
	client.SetEventHandler(controller.Dispatch)

	if err := controller.Join(ctx, sess.RoomURL); err != nil {
		return err
	}

	<-ctx.Done()
	logrus.Info("Shutting down")

	leaveCtx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	if err := controller.Leave(leaveCtx); err != nil {
		logrus.WithError(err).Warn("Leave did not complete cleanly")
	}

	return nil
}

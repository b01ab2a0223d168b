package cli

import (
	"context"
	"log"
	"os"

	"keepsafe/internal/common"
)

func (a *App) Login(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return
	}

	if err := a.startSession(ctx, token); err != nil {
		log.Printf("error starting session: %s", err.Error())
		return
	}

	log.Printf("Login successfull")
	a.setMode(ModeOnline)
}

func (a *App) Register(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	defer common.WipeByteArray(password)

	token, err := a.api.Register(ctx, email, string(password))
	if err != nil {
		log.Printf("Registration unsuccessfull: %s", err.Error())
		return
	}

	if err := a.startSession(ctx, token); err != nil {
		log.Printf("error starting session: %s", err.Error())
		return
	}

	log.Printf("Registration successfull")
	a.setMode(ModeOnline)
}

func (a *App) Logout(ctx context.Context) {
	if a.feed != nil {
		a.feed.Close()
	}
	a.sess = nil
	a.queue = nil
	a.feed = nil
	a.api.SetToken("")
	log.Printf("Logged out")
}

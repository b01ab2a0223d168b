package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

func (a *App) getStatus() string {
	s := ""
	if a.sess != nil {
		s = a.sess.UserID + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to KeepSafe CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.Login(ctx)

	go func() {
		a.StartOnlineStatusWatcher(ctx, 3*time.Second)
	}()
	go func() {
		a.StartStuckSweeper(ctx, a.config.StuckCheckInterval)
	}()

	for {
		fmt.Printf("ks %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, add, calendar, retry <id>, reactions <id>, comments <id>, logout, exit")
			} else {
				fmt.Println("Available commands: register, login")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "add":
			if !a.isLoggedIn() {
				fmt.Println("Please login first")
				continue
			}
			a.add(ctx)
		case "l", "list":
			if !a.isLoggedIn() {
				fmt.Println("Please login first")
				continue
			}
			a.list(ctx)
		case "calendar":
			if !a.isLoggedIn() {
				fmt.Println("Please login first")
				continue
			}
			a.calendar(ctx)
		case "retry":
			if len(args) == 0 {
				fmt.Println("Usage: retry <id>")
				continue
			}
			a.retry(ctx, args[0])
		case "reactions":
			if len(args) == 0 {
				fmt.Println("Usage: reactions <id>")
				continue
			}
			a.reactions(ctx, args[0])
		case "comments":
			if len(args) == 0 {
				fmt.Println("Usage: comments <id>")
				continue
			}
			a.comments(ctx, args[0])
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}

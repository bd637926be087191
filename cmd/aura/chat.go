package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// runInteractiveChat is the default mode: a small REPL over the pipeline.
func runInteractiveChat() error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("AURA is listening. Type a message, or /help for commands.")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit", line == "/exit":
			fmt.Println("Until next time. 🌙")
			return nil
		case line == "/help":
			printChatHelp()
			continue
		case line == "/reset":
			if err := a.coordinator.ResetSession(ctx, sessionID); err != nil {
				fmt.Printf("reset failed: %v\n", err)
			} else {
				fmt.Println("Session reset. A fresh page.")
			}
			continue
		case line == "/journal":
			printJournal(ctx, a)
			continue
		case line == "/moods":
			printMoods(ctx, a)
			continue
		case line == "/log":
			printLog(a)
			continue
		}

		result, err := a.coordinator.ProcessTurn(ctx, sessionID, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("something went wrong: %v\n", err)
			continue
		}

		fmt.Printf("\naura> %s\n", result.Response)
		fmt.Printf("      [%s, %s]\n\n", result.Mood, result.ConfidenceTier)
	}

	return scanner.Err()
}

func printChatHelp() {
	fmt.Println(`Commands:
  /journal   show this session's journal entries
  /moods     show the mood history
  /log       show the agent log
  /reset     clear this session
  /quit      leave`)
}

func printJournal(ctx context.Context, a *app) {
	st, err := a.coordinator.Session(ctx, sessionID)
	if err != nil {
		fmt.Printf("could not load session: %v\n", err)
		return
	}
	if len(st.Journal) == 0 {
		fmt.Println("The journal is still blank.")
		return
	}
	// Newest first
	for i := len(st.Journal) - 1; i >= 0; i-- {
		fmt.Println(st.Journal[i].Text)
		fmt.Println()
	}
}

func printMoods(ctx context.Context, a *app) {
	st, err := a.coordinator.Session(ctx, sessionID)
	if err != nil {
		fmt.Printf("could not load session: %v\n", err)
		return
	}
	if len(st.MoodHistory) == 0 {
		fmt.Println("No moods recorded yet.")
		return
	}
	for _, m := range st.MoodHistory {
		fmt.Printf("%s  %-10s %.2f\n", m.Timestamp.Format("15:04:05"), m.Mood, m.Confidence)
	}
}

func printLog(a *app) {
	entries := a.coordinator.AgentLog(sessionID)
	if len(entries) == 0 {
		fmt.Println("No turns this session yet.")
		return
	}
	for _, e := range entries {
		fmt.Printf("turn=%s  mood=%s(%.2f)  progress=%d%%  errors=%d\n",
			e.TurnID, e.Mood, e.Confidence, e.Progress, len(e.Errors))
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/peterh/liner"

	"github.com/tonglang/tong/pkg/tong"
	"github.com/tonglang/tong/pkg/tongmod"
)

// Styles
var (
	welcomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const replPrompt = "tong> "

// replCommands returns the list of REPL command names.
func replCommands() []string {
	return []string{"help", "env", "reset", "clear", "quit", "exit"}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tong_history")
}

func runREPL(ctx context.Context) error {
	session := tong.NewSession()
	tongmod.RegisterAll(session, nil)

	line := liner.NewLiner()
	defer line.Close() //nolint:errcheck
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		return completions(session, prefix)
	})

	if path := historyPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	fmt.Println(welcomeStyle.Render("tong repl"))
	fmt.Println(dimStyle.Render("type :help for commands, :quit to exit"))

	for {
		input, err := line.Prompt(replPrompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := runCommand(session, input); quit {
				break
			}
			continue
		}

		res, err := session.Eval(ctx, input)
		if res != nil {
			for _, w := range res.Warnings {
				fmt.Println(warnStyle.Render(w.String()))
			}
		}
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		if res.HasValue {
			fmt.Println(resultStyle.Render("=> " + res.Value.String()))
		}
	}

	if path := historyPath(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}
	return nil
}

// runCommand handles a :command line; the return value reports whether
// the REPL should exit.
func runCommand(session *tong.Session, input string) bool {
	switch strings.TrimPrefix(input, ":") {
	case "quit", "exit":
		return true
	case "help":
		fmt.Println(dimStyle.Render("commands:"))
		for _, cmd := range replCommands() {
			fmt.Println(dimStyle.Render("  :" + cmd))
		}
	case "env":
		for _, name := range session.Env().BindingNames() {
			v, _ := session.Env().Lookup(name)
			fmt.Printf("%s = %s\n", name, dimStyle.Render(v.String()))
		}
	case "reset":
		session.Reset()
		fmt.Println(dimStyle.Render("session reset"))
	case "clear":
		fmt.Print("\033[2J\033[H")
	default:
		fmt.Println(errorStyle.Render("unknown command " + input))
	}
	return false
}

// completions builds the completion list: commands, keywords, and the
// session's visible bindings.
func completions(session *tong.Session, prefix string) []string {
	seen := map[string]bool{}
	var all []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			all = append(all, name)
		}
	}

	for _, cmd := range replCommands() {
		add(":" + cmd)
	}
	keywords := []string{
		"let", "var", "fn", "def", "true", "false", "if", "else",
		"while", "parallel", "data", "match", "in", "return", "print",
		"import",
	}
	for _, kw := range keywords {
		add(kw)
	}
	for _, name := range session.Env().BindingNames() {
		add(name)
	}
	sort.Strings(all)

	var out []string
	for _, cand := range all {
		if strings.HasPrefix(cand, prefix) {
			out = append(out, cand)
		}
	}
	return out
}

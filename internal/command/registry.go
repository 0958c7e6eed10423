package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"portfolio-backend/internal/llm"
	"portfolio-backend/pkg/api"
)

const simulatedTerminalMessage = "Oops sorry, this is just a simulation of a real terminal. Type 'help' to see available commands."

const unavailableMessage = "AI assistant is unavailable. Type 'help' to see available commands."

// Common shell utilities users reflexively type into the fake terminal. The
// check runs before registry lookup, so these names can never be commands.
var shellUtilities = map[string]struct{}{
	"ls": {}, "cd": {}, "rm": {}, "pwd": {}, "cat": {}, "touch": {},
	"mkdir": {}, "rmdir": {}, "cp": {}, "mv": {}, "chmod": {}, "chown": {},
	"find": {}, "grep": {}, "head": {}, "tail": {}, "less": {}, "more": {},
	"ps": {}, "top": {}, "kill": {},
}

// Asker is the LLM fallback for input that matches no command.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Command is a named handler keyed by the first word of user input.
type Command struct {
	Name        string
	Description string
	Handler     func(raw string) api.Response
}

// Registry owns the command table and performs dispatch for each input line.
// Declaration order is preserved for the help listing.
type Registry struct {
	commands map[string]*Command
	order    []string
	fallback Asker // nil disables the LLM fallback
}

// NewRegistry creates a registry pre-populated with the default commands.
func NewRegistry(fallback Asker) *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		fallback: fallback,
	}
	r.registerDefaults()
	return r
}

// Register inserts or overwrites a command by lowercase name. Names shadowed
// by the shell-utility denylist would be unreachable and are refused.
func (r *Registry) Register(cmd Command) error {
	name := strings.ToLower(cmd.Name)
	if _, denied := shellUtilities[name]; denied {
		slog.Warn("refusing to register command shadowed by shell-utility denylist", "name", name)
		return fmt.Errorf("command name %q is shadowed by the shell-utility denylist", name)
	}

	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	cmd.Name = name
	r.commands[name] = &cmd
	return nil
}

// Commands returns the registered commands in declaration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Dispatch parses one raw input line and routes it to a command handler, the
// LLM fallback, or an error envelope. It never fails the request.
func (r *Registry) Dispatch(ctx context.Context, raw string) api.Response {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return api.Response{Kind: api.KindError, Output: "Type a command to get started."}
	}

	name := strings.ToLower(strings.Fields(raw)[0])

	if _, denied := shellUtilities[name]; denied {
		return api.Response{Kind: api.KindError, Output: simulatedTerminalMessage}
	}

	if cmd, ok := r.commands[name]; ok {
		return cmd.Handler(raw)
	}

	if r.fallback != nil {
		return r.askFallback(ctx, raw)
	}

	return api.Response{
		Kind:   api.KindError,
		Output: fmt.Sprintf("Unknown command: '%s'. Type 'help' to see options.", name),
	}
}

func (r *Registry) askFallback(ctx context.Context, question string) api.Response {
	answer, err := r.fallback.Ask(ctx, question)
	if err != nil {
		if !errors.Is(err, llm.ErrUnavailable) {
			slog.Error("llm fallback failed", "error", err)
		}
		return api.Response{Kind: api.KindError, Output: unavailableMessage}
	}
	return api.Response{Kind: api.KindAI, Output: answer}
}

func (r *Registry) registerDefaults() {
	defaults := []Command{
		{
			Name:        "help",
			Description: "List all available commands and what they do.",
			Handler:     r.helpHandler,
		},
		{
			Name:        "about",
			Description: "Read a short introduction about me.",
			Handler: staticText(`Hi there. My name's Ben, and I currently head up AI & Machine Learning at Motorway, leading teams that build applied AI products powering the UK's fastest-growing used vehicle marketplace. My work sits at the intersection of AI, product, and engineering — turning complex machine learning and AI into reliable, safe, and commercially impactful solutions.

In addition to my day job, I advise startups on AI, ML, and data science strategy — helping them design, build, and operationalise intelligent systems, and have spoken at a number of conferences including as a main stage speaker at Google Cloud's London Summit in 2024 and Big Data London in 2025.

Before Motorway, I led ML at computer vision startup DeGould and worked as a technical consultant for 4 years across Accenture, Anglo American, and the UK's Ministry of Defence. My consulting experiences allowed me to hone my ability to spot commercial opportunity — and I take pride in ensuring every AI initiative is grounded in adding real business or user value.

With a hands-on foundation in data science and ML engineering, my focus more recently has been on delivering transformational experiences with agentic generative AI systems. I'm passionate about building high-performing teams and creating ethical, scalable AI systems that drive real impact.

Want to know more? Just ask a question here, and my assistant will do its best to help!`),
		},
		{
			Name:        "cv",
			Description: "Download my current CV as a PDF.",
			Handler: func(string) api.Response {
				return api.Response{
					Kind:   api.KindDownload,
					Output: "Downloading CV...",
					URL:    "/download/cv",
				}
			},
		},
		{
			Name:        "clear",
			Description: "Clear the virtual terminal history.",
			Handler: func(string) api.Response {
				return api.Response{Kind: api.KindClear}
			},
		},
		{
			Name:        "contact",
			Description: "Get my contact details and social links.",
			Handler: staticText(`Get in touch:

  Email     btjones.me+contact@gmail.com
  GitHub    https://github.com/btjones-me
  LinkedIn  https://www.linkedin.com/in/benthomasjones/`),
		},
		{
			Name:        "chat",
			Description: "Enter AI chat mode for a conversation about Ben.",
			Handler: func(string) api.Response {
				return api.Response{
					Kind: api.KindChatStart,
					Output: "🤖 Entering chat mode! Ask me anything about Ben's experience, " +
						"skills, or background. Type 'exit' or 'end' to return to command mode, " +
						"or 'help' to see chat tips.",
				}
			},
		},
		{
			Name:        "exit",
			Description: "Exit AI chat mode and return to commands.",
			Handler: func(string) api.Response {
				return api.Response{
					Kind:   api.KindChatEnd,
					Output: "Exited chat mode. Type 'help' to see available commands.",
				}
			},
		},
	}

	for _, cmd := range defaults {
		if err := r.Register(cmd); err != nil {
			slog.Error("could not register default command", "name", cmd.Name, "error", err)
		}
	}
}

func (r *Registry) helpHandler(string) api.Response {
	var lines []string
	for _, cmd := range r.Commands() {
		lines = append(lines, fmt.Sprintf("  %-8s %s", cmd.Name, cmd.Description))
	}

	banner := "Available commands (type them just like you would in a terminal):\n" +
		strings.Join(lines, "\n") +
		"\n\n💡 Tip: You can also just ask me questions directly!"
	return api.Response{Kind: api.KindText, Output: banner}
}

func staticText(text string) func(string) api.Response {
	return func(string) api.Response {
		return api.Response{Kind: api.KindText, Output: text}
	}
}

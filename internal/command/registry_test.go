package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/llm"
	"portfolio-backend/pkg/api"
)

type fakeAsker struct {
	answer   string
	err      error
	question string
}

func (f *fakeAsker) Ask(_ context.Context, question string) (string, error) {
	f.question = question
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestDispatchEmptyInput(t *testing.T) {
	r := NewRegistry(nil)
	for _, raw := range []string{"", "   ", "\t"} {
		resp := r.Dispatch(context.Background(), raw)
		assert.Equal(t, api.KindError, resp.Kind)
		assert.Equal(t, "Type a command to get started.", resp.Output)
	}
}

func TestDispatchIsCaseInsensitive(t *testing.T) {
	r := NewRegistry(nil)

	for _, cmd := range r.Commands() {
		capitalized := strings.ToUpper(cmd.Name[:1]) + cmd.Name[1:]
		for _, name := range []string{cmd.Name, strings.ToUpper(cmd.Name), capitalized} {
			resp := r.Dispatch(context.Background(), name)
			assert.NotEqual(t, api.KindError, resp.Kind, "command %q should dispatch", name)
		}
	}
}

func TestDispatchShellUtilityDenylist(t *testing.T) {
	r := NewRegistry(&fakeAsker{answer: "should not be called"})

	for _, raw := range []string{
		"ls", "ls -la", "LS -la", "rm -rf /", "cat /etc/passwd",
		"grep foo bar.txt", "top", "Kill -9 1",
	} {
		resp := r.Dispatch(context.Background(), raw)
		assert.Equal(t, api.KindError, resp.Kind, "input %q", raw)
		assert.Equal(t, simulatedTerminalMessage, resp.Output)
	}
}

func TestDispatchHelpListsEveryCommand(t *testing.T) {
	r := NewRegistry(nil)

	resp := r.Dispatch(context.Background(), "help")
	require.Equal(t, api.KindText, resp.Kind)
	for _, cmd := range r.Commands() {
		assert.Contains(t, resp.Output, cmd.Name)
		assert.Contains(t, resp.Output, cmd.Description)
	}
}

func TestHelpListingPreservesDeclarationOrder(t *testing.T) {
	r := NewRegistry(nil)

	resp := r.Dispatch(context.Background(), "help")
	helpIdx := strings.Index(resp.Output, "help")
	aboutIdx := strings.Index(resp.Output, "about")
	exitIdx := strings.Index(resp.Output, "exit")
	assert.Less(t, helpIdx, aboutIdx)
	assert.Less(t, aboutIdx, exitIdx)
}

func TestDispatchCV(t *testing.T) {
	r := NewRegistry(nil)

	resp := r.Dispatch(context.Background(), "cv")
	assert.Equal(t, api.KindDownload, resp.Kind)
	assert.NotEmpty(t, resp.Output)
	assert.Equal(t, "/download/cv", resp.URL)
}

func TestDispatchModeSwitchSignals(t *testing.T) {
	r := NewRegistry(nil)

	assert.Equal(t, api.KindChatStart, r.Dispatch(context.Background(), "chat").Kind)
	assert.Equal(t, api.KindChatEnd, r.Dispatch(context.Background(), "exit").Kind)
	assert.Equal(t, api.KindClear, r.Dispatch(context.Background(), "clear").Kind)
}

func TestDispatchUnknownWithoutFallback(t *testing.T) {
	r := NewRegistry(nil)

	resp := r.Dispatch(context.Background(), "frobnicate everything")
	assert.Equal(t, api.KindError, resp.Kind)
	assert.Equal(t, "Unknown command: 'frobnicate'. Type 'help' to see options.", resp.Output)
}

func TestDispatchFallbackForwardsFullInput(t *testing.T) {
	asker := &fakeAsker{answer: "Ben works at Motorway."}
	r := NewRegistry(asker)

	resp := r.Dispatch(context.Background(), "where does Ben work?")
	assert.Equal(t, api.KindAI, resp.Kind)
	assert.Equal(t, "Ben works at Motorway.", resp.Output)
	assert.Equal(t, "where does Ben work?", asker.question)
}

func TestDispatchFallbackUnavailable(t *testing.T) {
	r := NewRegistry(&fakeAsker{err: llm.ErrUnavailable})

	resp := r.Dispatch(context.Background(), "anything at all")
	assert.Equal(t, api.KindError, resp.Kind)
	assert.Equal(t, unavailableMessage, resp.Output)
}

func TestDispatchFallbackFailure(t *testing.T) {
	r := NewRegistry(&fakeAsker{err: errors.New("boom")})

	resp := r.Dispatch(context.Background(), "anything at all")
	assert.Equal(t, api.KindError, resp.Kind)
	assert.Equal(t, unavailableMessage, resp.Output)
}

func TestRegisterOverwriteKeepsOrder(t *testing.T) {
	r := NewRegistry(nil)
	count := len(r.Commands())

	err := r.Register(Command{
		Name:        "About",
		Description: "replacement",
		Handler:     staticText("replaced"),
	})
	require.NoError(t, err)

	cmds := r.Commands()
	assert.Len(t, cmds, count)
	assert.Equal(t, "about", cmds[1].Name)
	assert.Equal(t, "replacement", cmds[1].Description)
}

func TestRegisterRefusesDenylistedNames(t *testing.T) {
	r := NewRegistry(nil)

	err := r.Register(Command{Name: "find", Description: "x", Handler: staticText("x")})
	assert.Error(t, err)

	resp := r.Dispatch(context.Background(), "find")
	assert.Equal(t, simulatedTerminalMessage, resp.Output)
}

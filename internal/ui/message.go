package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgGenerationDone
	MsgUserLoaded
	MsgGuideDetected
	MsgGuidePoll
	MsgAutoSubmit
	MsgExported
	MsgOpened
)

type generationDone struct {
	state tasks.GenerationState
	err   error
}

type userLoaded struct {
	state tasks.UserState
	err   error
}

type guideDetected struct {
	seq  int
	text string
}

type exported struct {
	files []string
	err   error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// generationDoneMsg is the constructor for [MsgGenerationDone]
func generationDoneMsg(state tasks.GenerationState, err error) Msg {
	return Msg{kind: MsgGenerationDone, data: generationDone{state, err}}
}

// userLoadedMsg is the constructor for [MsgUserLoaded]
func userLoadedMsg(state tasks.UserState, err error) Msg {
	return Msg{kind: MsgUserLoaded, data: userLoaded{state, err}}
}

// guideDetectedMsg is the constructor for [MsgGuideDetected]
func guideDetectedMsg(seq int, text string) Msg {
	return Msg{kind: MsgGuideDetected, data: guideDetected{seq, text}}
}

// guidePollMsg is the constructor for [MsgGuidePoll]; seq ties a poll to the guide session that scheduled it.
func guidePollMsg(seq int) Msg {
	return Msg{kind: MsgGuidePoll, data: seq}
}

// autoSubmitMsg is the constructor for [MsgAutoSubmit]
func autoSubmitMsg(text string) Msg {
	return Msg{kind: MsgAutoSubmit, data: text}
}

// exportedMsg is the constructor for [MsgExported]
func exportedMsg(files []string, err error) Msg {
	return Msg{kind: MsgExported, data: exported{files, err}}
}

// openedMsg is the constructor for [MsgOpened]
func openedMsg(err error) Msg {
	return Msg{kind: MsgOpened, data: err}
}

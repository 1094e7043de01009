package tui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# keys

| key | action |
| --- | --- |
| drag | draw |
| p | pen |
| e | eraser |
| 1-8 | pick a color |
| u | undo your last stroke |
| r | redo |
| c | clear the board for everyone |
| y | copy the room id |
| ? | toggle this help |
| q | leave the room |

Undo and redo only affect your own strokes on your screen.
Clear removes the board for everyone in the room.
`

func renderHelp(width int) string {
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}

	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}

	return out
}

package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomz197/asteroids-neo/internal/draw"
	"github.com/tomz197/asteroids-neo/internal/game"
)

var titleLines = []string{
	`+-----------------------------------+`,
	`|  A  S  T  E  R  O  I  D  S        |`,
	`|                         - N E O - |`,
	`+-----------------------------------+`,
}

var tutorialLines = []string{
	"HOW TO PLAY",
	"",
	"A D / < >  . . .  Rotate",
	"W / Up . . . . .  Thrust",
	"S / Down . . . . .  Brake",
	"SPACE  . . . . . .  Shoot",
	"P / ESC  . . . . .  Pause",
	"M  . . . . . . . . . Mute",
	"",
	"Large rocks split into medium,",
	"medium into small. Small rocks",
	"are worth the most.",
}

var creditsLines = []string{
	"CREDITS",
	"",
	"Design and code . . . tomz197",
	"Terminal renderer  . . tomz197",
	"Synth audio  . . . . . beep",
}

// Draw writes every visible panel as a text overlay. It runs after the
// canvas is rendered so text sits on top of the play field.
func (m *Manager) Draw(cw *draw.ChunkWriter, termWidth, termHeight int) {
	cx, cy := termWidth/2, termHeight/2

	if m.visible[game.PanelHUD] {
		m.drawHUD(cw, termWidth, termHeight)
	}
	if m.visible[game.PanelMainMenu] {
		m.drawMainMenu(cw, cx, cy)
	}
	if m.visible[game.PanelTutorial] {
		drawBlock(cw, cx, cy, tutorialLines)
	}
	if m.visible[game.PanelCredits] {
		drawBlock(cw, cx, cy, creditsLines)
	}
	if m.visible[game.PanelPause] {
		drawBlock(cw, cx, cy, []string{"PAUSED", "", "P / ESC to resume", "B for main menu"})
	}
	if m.visible[game.PanelGameOver] {
		m.drawGameOver(cw, cx, cy)
	}
}

// drawHUD draws score, health, the shield and mute indicators. Fields are padded
// to a fixed width so shrinking values overwrite old digits.
func (m *Manager) drawHUD(cw *draw.ChunkWriter, termWidth, termHeight int) {
	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", m.score))

	hp := fmt.Sprintf("HP %s", healthBar(m.health, 10))
	cw.WriteAt(termWidth-len(hp)-1, 1, hp)
	shield := "      "
	if m.shield {
		shield = "SHIELD"
	}
	cw.WriteAt(termWidth-len(shield)-1, 2, shield)

	cw.WriteAt(2, termHeight, muteLabel(m.muted))
}

func (m *Manager) drawMainMenu(cw *draw.ChunkWriter, cx, cy int) {
	top := cy - 6
	for i, line := range titleLines {
		cw.WriteAt(cx-len(line)/2, top+i, line)
	}
	lines := []string{
		fmt.Sprintf("High score: %d", m.high),
		"",
		">>  Press ENTER to start  <<",
		"",
		"I tutorial   C credits   Q quit",
		muteLabel(m.muted),
	}
	for i, line := range lines {
		cw.WriteAt(cx-len(line)/2, top+len(titleLines)+1+i, line)
	}
}

func (m *Manager) drawGameOver(cw *draw.ChunkWriter, cx, cy int) {
	lines := []string{
		"G A M E   O V E R",
		"",
		fmt.Sprintf("Score: %d", m.final),
		fmt.Sprintf("High score: %d", m.high),
	}
	if m.newHigh {
		lines = append(lines, "", "* NEW HIGH SCORE *")
	}
	lines = append(lines, "", "ENTER to retry   B for main menu")
	drawBlock(cw, cx, cy, lines)
}

// drawBlock centres lines around (cx, cy).
func drawBlock(cw *draw.ChunkWriter, cx, cy int, lines []string) {
	top := cy - len(lines)/2
	for i, line := range lines {
		if line == "" {
			continue
		}
		cw.WriteAt(cx-len(line)/2, top+i, line)
	}
}

// healthBar renders health as a bar of width cells.
func healthBar(health float64, width int) string {
	filled := min(max(int(math.Ceil(health)), 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func muteLabel(muted bool) string {
	if muted {
		return "Sound: off (M)"
	}
	return "Sound: on  (M)"
}

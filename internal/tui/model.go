package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"negachess/internal/chess"
	"negachess/internal/server/game"
)

// 60 帧轮询引擎
const frame = time.Second / 60

const maxLogLines = 200

type tickMsg time.Time

type Model struct {
	games   *game.Manager
	players game.Players
	id      string
	snap    game.Snapshot
	pos     *chess.Position // snap.FEN 解出来的，只用于画棋盘

	input    textinput.Model
	logLines []string

	// 非空时等待升变选择，存的是不带升变字母的 UCI
	pendingPromo string

	width  int
	height int
}

func NewModel(games *game.Manager, players game.Players, fen string) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "e2e4 / :undo / :reset / :go / :pgn / :quit"
	ti.Prompt = "> "
	ti.CharLimit = 80
	ti.Width = 60
	ti.Focus()

	m := Model{
		games:   games,
		players: players,
		input:   ti,
	}
	snap, err := games.NewGame(players, fen)
	if err != nil {
		return Model{}, err
	}
	m.id = snap.ID
	m.setSnapshot(snap)
	m.appendLog(fmt.Sprintf("new game: white=%s black=%s", players.White, players.Black))
	return m, nil
}

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = min(80, max(30, m.width-4))
		return m, nil

	case tickMsg:
		m.games.Tick()
		if snap, err := m.games.Get(m.id); err == nil {
			m.setSnapshot(snap)
		}
		return m, tick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.pendingPromo != "" {
			m.choosePromotion(msg.String())
			return m, nil
		}
		if msg.Type == tea.KeyEnter {
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if m.execCommand(line) {
				return m, tea.Quit
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// execCommand 返回 true 表示退出
func (m *Model) execCommand(line string) bool {
	m.appendLog("> " + line)

	if !strings.HasPrefix(line, ":") {
		m.play(line)
		return false
	}

	var (
		snap game.Snapshot
		err  error
	)
	switch strings.ToLower(line) {
	case ":q", ":quit":
		return true
	case ":undo", ":u":
		snap, err = m.games.Undo(m.id)
	case ":reset", ":r":
		snap, err = m.games.Reset(m.id)
	case ":go", ":resume":
		snap, err = m.games.Resume(m.id)
	case ":pgn":
		pgn, err := m.games.PGN(m.id)
		if err != nil {
			m.appendLog(fmt.Sprintf("pgn failed: %v", err))
			return false
		}
		for _, ln := range strings.Split(strings.TrimRight(pgn, "\n"), "\n") {
			m.appendLog("  " + ln)
		}
		return false
	case ":fen":
		m.appendLog("  " + m.snap.FEN)
		return false
	default:
		m.appendLog(fmt.Sprintf("unknown command: %s", line))
		return false
	}
	if err != nil {
		m.appendLog(fmt.Sprintf("%s failed: %v", strings.TrimPrefix(line, ":"), err))
		return false
	}
	m.setSnapshot(snap)
	if snap.Paused {
		m.appendLog("engine paused (:go to resume)")
	}
	return false
}

func (m *Model) play(uci string) {
	snap, err := m.games.Play(m.id, strings.ToLower(uci))
	switch {
	case errors.Is(err, game.ErrPromotionRequired):
		m.pendingPromo = strings.ToLower(uci)
		m.appendLog("promote to? [q]ueen [r]ook [b]ishop k[n]ight, esc cancels")
		return
	case err != nil:
		m.appendLog(fmt.Sprintf("move rejected: %v", err))
		return
	}
	m.setSnapshot(snap)
}

func (m *Model) choosePromotion(key string) {
	switch key {
	case "q", "r", "b", "n":
		uci := m.pendingPromo + key
		m.pendingPromo = ""
		m.play(uci)
	case "esc":
		m.pendingPromo = ""
		m.appendLog("promotion cancelled")
	}
}

// setSnapshot 新增的着法写进日志
func (m *Model) setSnapshot(snap game.Snapshot) {
	prev := m.snap
	m.snap = snap
	if pos, err := chess.DecodePosition(snap.FEN); err == nil {
		m.pos = pos
		if mv, ok := lastMove(snap); ok {
			// FEN 不带历史，高亮靠手动补一步
			m.pos.History = append(m.pos.History, mv)
		}
	}

	if prev.ID == snap.ID && snap.Ply > prev.Ply {
		for i := prev.Ply; i < snap.Ply && i < len(snap.History); i++ {
			m.appendLog(fmt.Sprintf("%3d. %s", i+1, snap.History[i]))
		}
	}
	if prev.Status != snap.Status && snap.Status.IsOver() {
		m.appendLog("game over: " + snap.Status.String())
	}
}

func lastMove(snap game.Snapshot) (chess.Move, bool) {
	if snap.LastMove == "" {
		return chess.Move{}, false
	}
	from, to, _, err := chess.ParseUCI(snap.LastMove)
	if err != nil {
		return chess.Move{}, false
	}
	return chess.Move{From: from, To: to}, true
}

func (m *Model) appendLog(s string) {
	m.logLines = append(m.logLines, s)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}

func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	status := fmt.Sprintf("%s to move", m.snap.SideToMove)
	switch {
	case m.snap.Status.IsOver():
		status = m.snap.Status.String()
	case m.snap.Thinking:
		status += " (thinking)"
	case m.snap.Paused:
		status += " (engine paused)"
	}
	if m.snap.InCheck && !m.snap.Status.IsOver() {
		status += "  CHECK"
	}
	header := titleStyle.Render(fmt.Sprintf("negachess  [%s vs %s]  %s", m.players.White, m.players.Black, status))

	var board string
	if m.pos != nil {
		board = boxStyle.Render(renderBoard(m.pos))
	}

	logHeight := max(5, min(chess.Rows+2, m.height-6))
	logStart := max(0, len(m.logLines)-logHeight)
	logWidth := max(20, m.width-lipgloss.Width(board)-4)
	logBox := boxStyle.Width(logWidth).Height(logHeight).Render(strings.Join(m.logLines[logStart:], "\n"))

	var inputLine string
	if m.pendingPromo != "" {
		inputLine = fmt.Sprintf("promote %s to: q / r / b / n", m.pendingPromo)
	} else {
		inputLine = m.input.View()
	}
	inputBox := boxStyle.Width(max(20, m.width-2)).Render(inputLine)

	body := lipgloss.JoinHorizontal(lipgloss.Top, board, " ", logBox)
	return header + "\n" + body + "\n" + inputBox + "\n"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

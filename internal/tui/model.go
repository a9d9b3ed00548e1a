package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paperdex/internal/service"
)

// ResultLimit is how many hits a query shows.
const ResultLimit = 10

// SearchPort is the TUI-facing subset of the paper service.
type SearchPort interface {
	SearchPapers(ctx context.Context, query string, k int) ([]service.PaperHit, error)
	SearchChunks(ctx context.Context, query string, k int) ([]service.ChunkHit, error)
}

type mode int

const (
	chunkMode mode = iota
	paperMode
)

func (m mode) String() string {
	if m == paperMode {
		return "papers"
	}
	return "chunks"
}

type result struct {
	title string
	body  string
	score float64
}

// Model is the Bubble Tea model for the interactive browser.
type Model struct {
	ctx       context.Context
	service   SearchPort
	input     textinput.Model
	viewport  viewport.Model
	results   []result
	mode      mode
	header    string
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance. header is shown under the title.
func New(ctx context.Context, service SearchPort, header string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		service:  service,
		input:    ti,
		viewport: vp,
		header:   header,
		status:   "Searching chunks. Tab switches to papers.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // title + header
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m = m.search(q)
				return m, nil
			}
		case "tab":
			if m.mode == chunkMode {
				m.mode = paperMode
			} else {
				m.mode = chunkMode
			}
			m.status = fmt.Sprintf("Searching %s.", m.mode)
			if m.lastQuery != "" {
				m = m.search(m.lastQuery)
			}
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) search(q string) Model {
	res, err := m.query(q)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d %s for %q", len(res), m.mode, q)
		if len(res) == 0 {
			m.status = "Nothing indexed yet. Add papers with add-paper first."
		}
		m.results = res
		m.cursor = 0
		m.lastQuery = q
	}
	m.viewport.SetContent(m.renderCurrentResult())
	return m
}

func (m Model) query(q string) ([]result, error) {
	if m.mode == paperMode {
		hits, err := m.service.SearchPapers(m.ctx, q, ResultLimit)
		if err != nil {
			return nil, err
		}
		out := make([]result, len(hits))
		for i, h := range hits {
			out[i] = result{
				title: fmt.Sprintf("%s (%s)", h.Path, strings.Join(h.Topics, ", ")),
				body:  h.Summary,
				score: h.Score,
			}
		}
		return out, nil
	}
	hits, err := m.service.SearchChunks(m.ctx, q, ResultLimit)
	if err != nil {
		return nil, err
	}
	out := make([]result, len(hits))
	for i, h := range hits {
		out[i] = result{
			title: fmt.Sprintf("%s#page%d", h.PaperPath, h.Page),
			body:  h.Text,
			score: h.Score,
		}
	}
	return out, nil
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := lipgloss.NewStyle().Bold(true).Render("paperdex")
	header := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.header)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return title + "\n" + header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  score=%.3f", m.cursor+1, len(m.results), r.score)
	body := highlightBestSentence(r.body, m.lastQuery)
	return title + "\n" + r.title + "\n\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	wordRe         = regexp.MustCompile(`[\p{L}\p{N}]+`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence marks the sentence sharing the most words with query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := splitSentences(text)
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

// splitSentences keeps the unterminated tail, which chunk boundaries
// usually leave behind.
func splitSentences(text string) []string {
	locs := sentenceRe.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(locs)+1)
	end := 0
	for _, l := range locs {
		out = append(out, text[l[0]:l[1]])
		end = l[1]
	}
	if tail := strings.TrimSpace(text[end:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := wordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

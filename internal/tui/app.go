// Package tui is the SSH terminal front-end: a rates table and a pair
// chart, backed by the same services as the HTTP API.
package tui

import (
	"context"
	"fmt"
	"time"

	"kantor/internal/domain"
	"kantor/internal/rates"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const queryTimeout = 15 * time.Second

// RateQuerier provides the current rate table.
type RateQuerier interface {
	Currencies(ctx context.Context) ([]domain.Currency, error)
}

// SeriesQuerier builds chart series for a currency pair.
type SeriesQuerier interface {
	FetchSeries(ctx context.Context, from, to string, rng rates.Range) ([]rates.Point, error)
}

// Services is everything the TUI needs, injected by cmd/ssh.
type Services struct {
	Rates    RateQuerier
	Series   SeriesQuerier
	Username string
}

type view int

const (
	viewRates view = iota
	viewChart
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type currenciesMsg struct {
	currencies []domain.Currency
	err        error
}

type seriesMsg struct {
	gen    int
	points []rates.Point
	err    error
}

// AppModel is the root bubbletea model.
type AppModel struct {
	svc Services

	view    view
	width   int
	height  int
	spinner spinner.Model
	loading bool
	err     error

	table      table.Model
	currencies []domain.Currency

	chart chartModel
}

func NewAppModel(svc Services) *AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	columns := []table.Column{
		{Title: "Code", Width: 6},
		{Title: "Currency", Width: 32},
		{Title: "Mid (PLN)", Width: 12},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return &AppModel{
		svc:     svc,
		spinner: sp,
		loading: true,
		table:   tbl,
		chart:   newChartModel(svc.Series),
	}
}

func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.chart.setSize(width, height)
	if height > 10 {
		m.table.SetHeight(height - 8)
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCurrencies())
}

func (m *AppModel) fetchCurrencies() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		currencies, err := m.svc.Rates.Currencies(ctx)
		return currenciesMsg{currencies: currencies, err: err}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.view == viewRates {
				m.view = viewChart
				return m, m.chart.refresh()
			}
			m.view = viewRates
			return m, nil
		case "r":
			if m.view == viewRates {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchCurrencies())
			}
		}
		if m.view == viewChart {
			var cmd tea.Cmd
			m.chart, cmd = m.chart.update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case currenciesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.currencies = msg.currencies
		m.table.SetRows(currencyRows(msg.currencies))
		m.chart.setCodes(currencyCodes(msg.currencies))
		return m, nil

	case seriesMsg:
		var cmd tea.Cmd
		m.chart, cmd = m.chart.handleSeries(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading || m.chart.loading {
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m *AppModel) View() string {
	header := titleStyle.Render("kantor") + statusStyle.Render("  exchange rates")
	if m.svc.Username != "" {
		header += statusStyle.Render("  ("+m.svc.Username+")")
	}

	var body string
	switch m.view {
	case viewRates:
		body = m.ratesView()
	case viewChart:
		body = m.chart.view(m.spinner.View())
	}

	help := helpStyle.Render("tab: switch view  r: refresh  q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", help)
}

func (m *AppModel) ratesView() string {
	if m.loading {
		return m.spinner.View() + " loading rates..."
	}
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}
	return m.table.View()
}

func currencyRows(currencies []domain.Currency) []table.Row {
	rows := make([]table.Row, 0, len(currencies))
	for _, c := range currencies {
		rows = append(rows, table.Row{c.Code, c.Name, fmt.Sprintf("%.4f", c.Mid)})
	}
	return rows
}

func currencyCodes(currencies []domain.Currency) []string {
	codes := make([]string, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, c.Code)
	}
	return codes
}

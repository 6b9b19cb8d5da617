package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/campuscalm-widgets/internal/keys"
	"github.com/nhle/campuscalm-widgets/internal/remote"
	appsync "github.com/nhle/campuscalm-widgets/internal/sync"
	"github.com/nhle/campuscalm-widgets/internal/ui"
	bellview "github.com/nhle/campuscalm-widgets/internal/ui/bell"
	"github.com/nhle/campuscalm-widgets/internal/ui/command"
	chatview "github.com/nhle/campuscalm-widgets/internal/ui/chat"
	helpview "github.com/nhle/campuscalm-widgets/internal/ui/help"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewChat ViewState = iota
	ViewBell
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model. It routes keys between the chat
// panel and the bell dropdown and feeds both from the event bridge.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	runtime      *Runtime
	events       *appsync.Events
	poller       *appsync.Poller
	keys         *keys.KeyMap
	chatView     chatview.Model
	bellView     bellview.Model
	helpView     helpview.Model
	commandView  command.Model
	ready        bool
	message      string
}

// New creates the root model. events must be the Renderer, Navigator and
// OnSettled hook rt was built with.
func New(rt *Runtime, events *appsync.Events) Model {
	k := keys.DefaultKeyMap()
	cfg := rt.Config

	poller := appsync.New(rt.Bell, events, cfg.PollInterval(), 2*cfg.Timeout(), rt.Logger.Named("poller"))

	return Model{
		currentView: ViewChat,
		runtime:     rt,
		events:      events,
		poller:      poller,
		keys:        k,
		chatView:    chatview.New(rt.Chat, rt.Pipeline, rt.Locale, k, 80, 24),
		bellView:    bellview.New(rt.Bell, rt.Locale, k, cfg.Timeout(), 80, 24),
		helpView:    helpview.New(k, rt.Locale, 80, 24),
		commandView: command.New(rt.Locale, 80, 24),
	}
}

// Init focuses the chat input and starts the bell poller, which also
// subscribes to the event bridge.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.chatView.Init(),
		m.chatView.Focus(),
		m.poller.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.chatView.SetSize(w, h)
		m.bellView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		return m, nil

	case appsync.BadgeMsg:
		m.bellView.SetBadge(msg.Badge)
		return m, m.events.Wait()

	case appsync.ListMsg:
		m.bellView.SetList(msg.List)
		return m, m.events.Wait()

	case appsync.PulseMsg:
		m.bellView.SetPulsing(msg.On)
		return m, m.events.Wait()

	case appsync.NavigateMsg:
		m.message = "→ " + m.runtime.Client.Resolve(msg.URL)
		m.runtime.Logger.Info("navigate", zap.String("url", msg.URL))
		return m, m.events.Wait()

	case appsync.ChatSettledMsg:
		m.chatView.Settled()
		if msg.Settlement.Fallback {
			m.runtime.Logger.Debug("chat answered locally",
				zap.String("submission", msg.Settlement.SubmissionID),
				zap.String("cause", remote.Kind(msg.Settlement.Err)),
			)
		}
		return m, m.events.Wait()

	case appsync.RefreshResultMsg:
		if err := msg.Result.Err(); err != nil {
			m.runtime.Logger.Debug("bell refresh failed", zap.Error(err))
		}
		return m, m.events.Wait()

	case bellview.ActionDoneMsg:
		if msg.Err != nil {
			m.message = m.runtime.Locale.Pick("Falha: ", "Failed: ") + remote.Kind(msg.Err)
		}
		return m, nil

	case bellview.CloseMsg:
		return m.openChat()

	case chatview.CloseMsg:
		return m.openBell()

	case command.CancelMsg:
		return m.back()

	case command.CommandMsg:
		return m.executeCommand(command.Name(msg))

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.shutdown()
			return m, tea.Quit
		}

		switch m.currentView {
		case ViewChat:
			switch {
			case key.Matches(msg, m.keys.Chat):
				return m.openBell()
			case msg.Type == tea.KeyCtrlP:
				return m.openCommand()
			}
		case ViewBell:
			switch {
			case key.Matches(msg, m.keys.Chat):
				return m.openChat()
			case key.Matches(msg, m.keys.Refresh):
				m.poller.Trigger()
				return m, nil
			case key.Matches(msg, m.keys.Help):
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil
			case key.Matches(msg, m.keys.Command):
				return m.openCommand()
			}
		case ViewHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

func (m Model) openBell() (tea.Model, tea.Cmd) {
	m.chatView.Blur()
	m.currentView = ViewBell
	m.message = ""
	m.poller.Trigger()
	return m, nil
}

func (m Model) openCommand() (tea.Model, tea.Cmd) {
	m.chatView.Blur()
	m.previousView = m.currentView
	m.currentView = ViewCommand
	return m, m.commandView.Focus()
}

// back leaves the palette for the view it was opened from.
func (m Model) back() (tea.Model, tea.Cmd) {
	if m.previousView == ViewChat {
		return m.openChat()
	}
	m.currentView = m.previousView
	return m, nil
}

// executeCommand runs a palette command.
func (m Model) executeCommand(name command.Name) (tea.Model, tea.Cmd) {
	switch name {
	case command.Refresh:
		m.poller.Trigger()
		return m.back()
	case command.ReadAll:
		m.currentView = ViewBell
		return m, m.bellView.MarkAll()
	case command.Chat:
		return m.openChat()
	case command.Bell:
		return m.openBell()
	case command.EndSession:
		m.message = m.runtime.Locale.Pick("Sessao encerrada.", "Session ended.")
		if err := m.runtime.EndSession(context.Background()); err != nil {
			m.message = err.Error()
		}
		m.chatView.Reload()
		return m.back()
	case command.Quit:
		m.shutdown()
		return m, tea.Quit
	}
	return m.back()
}

func (m Model) openChat() (tea.Model, tea.Cmd) {
	m.currentView = ViewChat
	return m, m.chatView.Focus()
}

// shutdown stops background work so no callback outlives the program.
func (m Model) shutdown() {
	m.events.Close()
	m.poller.Stop()
	m.runtime.Pipeline.Close()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewChat:
		m.chatView, cmd = m.chatView.Update(msg)
	case ViewBell:
		m.bellView, cmd = m.bellView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return m.runtime.Locale.Pick("Carregando...", "Loading...")
	}

	bell := ui.RenderBell(m.bellView.Badge(), m.bellView.Pulsing())
	header := m.layout.RenderHeader("CampusCalm", m.syncStatus(), bell)
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBell:
		return m.bellView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return m.chatView.View()
	}
}

// syncStatus describes the last bell refresh.
func (m Model) syncStatus() string {
	loc := m.runtime.Locale
	status := m.poller.Status()

	switch status.State {
	case appsync.SyncRunning:
		return loc.Pick("sincronizando", "syncing")
	case appsync.SyncError:
		return loc.Pick("sem conexao", "offline")
	}
	if status.LastSync.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %s", loc.Pick("atualizado", "updated"), status.LastSync.Format("15:04"))
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.message != "" {
		return m.message
	}

	loc := m.runtime.Locale
	switch m.currentView {
	case ViewBell:
		return loc.Pick(
			"enter abrir | A marcar todas | r atualizar | tab chat | : comandos | ? ajuda",
			"enter open | A mark all | r refresh | tab chat | : commands | ? help",
		)
	case ViewHelp:
		return loc.Pick("? fechar | esc voltar", "? close | esc back")
	case ViewCommand:
		return loc.Pick("enter executar | esc cancelar", "enter run | esc cancel")
	default:
		if n := m.chatView.Pending(); n > 0 {
			return loc.Pick(fmt.Sprintf("aguardando %d resposta(s)", n), fmt.Sprintf("waiting for %d reply(ies)", n))
		}
		return loc.Pick(
			"enter enviar | tab notificacoes | ctrl+p comandos | ctrl+c sair",
			"enter send | tab notifications | ctrl+p commands | ctrl+c quit",
		)
	}
}

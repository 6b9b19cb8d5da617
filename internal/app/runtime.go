package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/campuscalm-widgets/internal/chat"
	"github.com/nhle/campuscalm-widgets/internal/credential"
	"github.com/nhle/campuscalm-widgets/internal/kvstore"
	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/notify"
	"github.com/nhle/campuscalm-widgets/internal/remote"
)

// DefaultSessionID names the session used when none is given.
const DefaultSessionID = "default"

// RuntimeOptions selects the session and where the widgets render.
type RuntimeOptions struct {
	SessionID string
	Logger    *zap.Logger

	// Renderer and Navigator receive the bell's output.
	Renderer  notify.Renderer
	Navigator notify.Navigator

	// OnSettled is called when a chat submission appends its reply.
	OnSettled func(chat.Settlement)
}

// Runtime is one mount of both widgets: the session store, the backend
// client, and the two cores built on them.
type Runtime struct {
	Config    *model.AppConfig
	Locale    locale.Locale
	SessionID string
	Logger    *zap.Logger

	KV       kvstore.Store
	Client   *remote.Client
	Chat     *chat.Store
	Pipeline *chat.Pipeline
	Bell     *notify.Sync
}

// NewRuntime opens the session store, builds the client, and initializes
// the conversation and the bell baseline.
func NewRuntime(ctx context.Context, cfg *model.AppConfig, opts RuntimeOptions) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	loc := locale.FromTag(cfg.Locale)

	kv, err := kvstore.Open(ctx, kvstore.Options{
		Backend:    kvstore.Backend(cfg.Storage.Backend),
		SessionID:  sessionID,
		SQLitePath: cfg.Storage.SQLitePath,
		RedisAddr:  cfg.Storage.RedisAddr,
		SessionTTL: cfg.Storage.SessionTTLSec,
	})
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	client, err := remote.NewClient(cfg.Backend.BaseURL,
		remote.WithTimeout(cfg.Timeout()),
		remote.WithLogger(logger.Named("remote")),
	)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("creating backend client: %w", err)
	}
	seedSession(client, logger)

	persist := kvstore.NewBestEffort(kv, kvstore.LogFailures(logger.Named("kvstore")))

	store := chat.NewStore(persist, loc)
	store.Initialize(ctx, chat.Greeting(loc), chat.LegacyGreeting(loc))

	pipeline := chat.NewPipeline(store, client, loc, chat.Options{
		FallbackDelay: cfg.FallbackDelay(),
		OnSettled:     opts.OnSettled,
		Logger:        logger.Named("chat"),
	})

	renderer, navigator := opts.Renderer, opts.Navigator
	if renderer == nil || navigator == nil {
		snap := &notify.Snapshot{}
		if renderer == nil {
			renderer = snap
		}
		if navigator == nil {
			navigator = snap
		}
	}
	bell := notify.NewSync(client, notify.NewCache(persist), renderer, navigator, loc, notify.Options{
		Logger: logger.Named("bell"),
	})
	bell.Init(ctx)

	logger.Debug("runtime ready",
		zap.String("session", sessionID),
		zap.String("locale", string(loc)),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("backend", client.BaseURL()),
	)

	return &Runtime{
		Config:    cfg,
		Locale:    loc,
		SessionID: sessionID,
		Logger:    logger,
		KV:        kv,
		Client:    client,
		Chat:      store,
		Pipeline:  pipeline,
		Bell:      bell,
	}, nil
}

// seedSession puts the stored session cookie into the client's jar.
func seedSession(client *remote.Client, logger *zap.Logger) {
	cookie, err := credential.SessionCookie()
	if err != nil {
		logger.Warn("session cookie unavailable", zap.Error(err))
		return
	}
	if cookie != "" {
		client.SetCookie(remote.SessionCookie, cookie)
	}
}

// EndSession clears every value stored for the session and starts the
// conversation over from the greeting.
func (r *Runtime) EndSession(ctx context.Context) error {
	if err := r.KV.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session %s: %w", r.SessionID, err)
	}
	r.Chat.Initialize(ctx, chat.Greeting(r.Locale), chat.LegacyGreeting(r.Locale))
	r.Bell.Reset()
	return nil
}

// Close abandons in-flight chat replies, stops the bell cue, and closes
// the session store.
func (r *Runtime) Close() error {
	r.Pipeline.Close()
	r.Bell.Close()
	if err := r.KV.Close(); err != nil {
		return fmt.Errorf("closing session store: %w", err)
	}
	return nil
}

package app

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/shopfront/internal/admin"
	"github.com/xenking/shopfront/internal/backend"
	"github.com/xenking/shopfront/internal/chat"
	"github.com/xenking/shopfront/internal/domain/cart"
	"github.com/xenking/shopfront/internal/domain/checkout"
	"github.com/xenking/shopfront/internal/domain/discount"
	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/product"
	"github.com/xenking/shopfront/internal/domain/session"
	"github.com/xenking/shopfront/internal/domain/wishlist"
	"github.com/xenking/shopfront/internal/payment"
	"github.com/xenking/shopfront/pkg/health"
	"github.com/xenking/shopfront/pkg/httptransport"
)

// Engine is the composed storefront: every store built once at startup and
// injected into whatever needs it. There is no ambient shared state; the
// stores own theirs exclusively.
type Engine struct {
	Backend   *backend.Client
	Session   *session.Holder
	Cart      *cart.Store
	Wishlist  *wishlist.Store
	Discounts *discount.Resolver
	Checkout  *checkout.Flow
	Orders    *order.Surface
	Browser   *product.Browser
	Admin     *admin.Console
	Relay     *admin.Relay
	Chat      *chat.Client
	Monitor   *health.Monitor

	cache *session.Cache
}

// New composes the engine from configuration.
func New(cfg *Config, lg *zap.Logger) (*Engine, error) {
	cache, err := session.OpenCache(filepath.Join(cfg.DataDir, "shopfront.db"))
	if err != nil {
		return nil, errors.Wrap(err, "open session cache")
	}

	// The session holder and the backend client reference each other: the
	// client authenticates with the holder's token, the holder logs in
	// through the client. The token source indirection breaks the knot.
	var holder *session.Holder
	tokenSrc := httptransport.TokenSourceFunc(func() string {
		if holder == nil {
			return ""
		}
		return holder.Token()
	})

	transport := otelhttp.NewTransport(httptransport.Wrap(nil,
		httptransport.RequestID(),
		httptransport.Bearer(tokenSrc),
		httptransport.LogRequests(),
	))
	client := backend.NewClient(cfg.BackendURL, backend.WithHTTPClient(&http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}))
	holder = session.New(client, cache)

	cartStore := cart.NewStore(client)
	wishlistStore := wishlist.NewStore(client)
	discounts := discount.NewResolver(client)
	gateway := payment.NewHTTPGateway(cfg.CardGatewayURL, nil)
	flow := checkout.NewFlow(cartStore, discounts, holder, client, gateway)
	orders := order.NewSurface(client)
	browser := product.NewBrowser(client, lg.Named("browser"))
	console := admin.NewConsole(client)
	relay := admin.NewRelay()
	chatClient := chat.New(cfg.ChatURL, lg.Named("chat"))

	monitor := health.NewMonitor()
	monitor.AddCheck("backend", 5*time.Second, health.HTTPGetCheck(nil, cfg.BackendURL+"/api/products"))
	monitor.AddCheck("chat", time.Second, health.LinkCheck(chatClient.Alive))

	return &Engine{
		Backend:   client,
		Session:   holder,
		Cart:      cartStore,
		Wishlist:  wishlistStore,
		Discounts: discounts,
		Checkout:  flow,
		Orders:    orders,
		Browser:   browser,
		Admin:     console,
		Relay:     relay,
		Chat:      chatClient,
		Monitor:   monitor,
		cache:     cache,
	}, nil
}

// Close releases engine resources.
func (e *Engine) Close() error {
	_ = e.Chat.Close()
	return e.cache.Close()
}

// Run builds the engine, signs in, connects the live channel, and polls
// notifications until the context is canceled. It is the single wiring
// point for the session agent.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("backend", cfg.BackendURL))

	engine, err := New(cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			lg.Error("Engine close error", zap.Error(err))
		}
	}()

	if err := signIn(ctx, engine, cfg, lg); err != nil {
		return err
	}

	id, _ := engine.Session.Current()
	lg.Info("Signed in", zap.String("user", id.UserID), zap.String("role", id.Role))

	if err := engine.Cart.Refresh(ctx); err != nil {
		lg.Warn("Initial cart load failed", zap.Error(err))
	}
	if err := engine.Wishlist.Refresh(ctx); err != nil {
		lg.Warn("Initial wishlist load failed", zap.Error(err))
	}

	if engine.Session.IsAdmin() {
		engine.Chat.OnMessage = engine.Relay.Append
		if err := engine.Admin.Load(ctx); err != nil {
			lg.Warn("Admin console load failed", zap.Error(err))
		}
	}
	if err := engine.Chat.Connect(ctx, id.UserID); err != nil {
		// The chat link is an optional section: a failed connect degrades
		// chat, not the whole engine.
		lg.Warn("Chat connect failed", zap.Error(err))
	}

	engine.Monitor.Start(ctx, cfg.ProbeInterval)
	defer engine.Monitor.Stop()

	meter := m.MeterProvider().Meter("shopfront")
	polls, err := meter.Int64Counter("shopfront.notification_polls")
	if err != nil {
		return errors.Wrap(err, "create poll counter")
	}

	ticker := time.NewTicker(cfg.NotifyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.Info("Shutting down")
			return nil
		case <-ticker.C:
			polls.Add(ctx, 1)
			unread, err := engine.Orders.Unread(ctx)
			if err != nil {
				zctx.From(ctx).Warn("Notification poll failed", zap.Error(err))
				continue
			}
			if unread > 0 {
				lg.Info("Unread notifications", zap.Int("count", unread))
			}
		}
	}
}

// signIn restores the cached session, falling back to credential login when
// configured.
func signIn(ctx context.Context, engine *Engine, cfg *Config, lg *zap.Logger) error {
	err := engine.Session.Restore(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, session.ErrNotAuthenticated) {
		lg.Warn("Session restore failed", zap.Error(err))
	}
	if cfg.Login.Email == "" {
		return errors.New("no cached session and no login credentials configured")
	}
	if err := engine.Session.Login(ctx, cfg.Login.Email, cfg.Login.Password); err != nil {
		return errors.Wrap(err, "sign in")
	}
	return nil
}

package bootstrap

import (
	"context"
	"log"

	"ai-chat-sync/internal/config"
	"ai-chat-sync/internal/controller"
	"ai-chat-sync/internal/handler"
	"ai-chat-sync/internal/model"
	"ai-chat-sync/internal/pkg/logger"
	"ai-chat-sync/internal/realtime"
	"ai-chat-sync/internal/repository/implementation"
	"ai-chat-sync/internal/service"
	"ai-chat-sync/internal/session"
	"ai-chat-sync/internal/store"
	"ai-chat-sync/internal/websocket"

	pktNats "ai-chat-sync/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController   controller.ISessionController
	WorkspaceController controller.IWorkspaceController
	ChatController      controller.IChatController
	MessageController   controller.IMessageController
	DialogController    controller.IDialogController

	// Session lifecycle
	Identity          *session.IdentitySource
	SessionBoundaries *session.Controller

	// WebSocket push
	PushHandler  *handler.PushHandler
	WebSocketHub *websocket.Hub

	// Exposed for Shutdown
	bus        *realtime.Bus
	manager    *realtime.Manager
	writeQueue *store.WriteQueue
	natsPub    *pktNats.Publisher
	natsSub    *pktNats.Subscriber
	stores     []interface{ Stop() }
	cancel     context.CancelFunc
}

// changeRelay is the publisher handed to repositories: every committed write
// lands on the in-process bus first, then fans out to NATS for other agent
// instances. NATS being down never fails a commit that already happened.
type changeRelay struct {
	instanceId string
	bus        *realtime.Bus
	nats       *pktNats.Publisher
	log        logger.ILogger
}

func (r *changeRelay) PublishChange(ctx context.Context, event realtime.ChangeEvent) error {
	event.Origin = r.instanceId

	if err := r.bus.PublishChange(ctx, event); err != nil {
		return err
	}

	if r.nats != nil {
		if err := r.nats.Publish(ctx, event); err != nil {
			r.log.Warn("Relay", "NATS fan-out failed, local mirror already updated", map[string]interface{}{
				"table": event.Table,
				"error": err.Error(),
			})
		}
	}
	return nil
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	instanceId := uuid.NewString()

	// 2. Change Feed
	bus := realtime.NewBus(sysLogger)
	manager := realtime.NewManager(bus, sysLogger)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	relay := &changeRelay{
		instanceId: instanceId,
		bus:        bus,
		nats:       natsPub,
		log:        sysLogger,
	}

	// Inbound bridge: changes committed by other instances enter the local
	// bus as if they were local. Own echoes are dropped by origin.
	if natsSub != nil {
		err := natsSub.Subscribe("changes.>", "agent-"+instanceId, func(ctx context.Context, event realtime.ChangeEvent) error {
			if event.Origin == instanceId {
				return nil
			}
			return bus.PublishChange(ctx, event)
		})
		if err != nil {
			log.Printf("[WARN] Failed to bridge NATS changes: %v", err)
		}
	}

	// 3. Repositories
	workspaceRepo := implementation.NewWorkspaceRepository(db, relay, sysLogger)
	chatRepo := implementation.NewChatRepository(db, relay, sysLogger)
	memberRepo := implementation.NewChatMemberRepository(db, relay, sysLogger)
	messageRepo := implementation.NewChatMessageRepository(db, relay, sysLogger)
	dialogRepo := implementation.NewDialogRepository(db, relay, sysLogger)
	profileRepo := implementation.NewProfileRepository(db)

	// 4. Services and Stores
	profileService := service.NewProfileService(profileRepo, cfg.Sync.ProfileCacheTTL)
	writeQueue := store.NewWriteQueue(cfg.Sync.WriteResultBuffer, sysLogger)

	workspaceStore := store.NewWorkspaceStore(workspaceRepo, manager, writeQueue, cfg.Sync.WriteThrottle, sysLogger)
	chatStore := store.NewChatStore(chatRepo, memberRepo, profileService, manager, writeQueue, cfg.Sync.WriteThrottle, sysLogger)
	messageStore := store.NewMessageStore(messageRepo, memberRepo, manager, writeQueue, cfg.Sync.WriteThrottle, sysLogger)
	dialogStore := store.NewDialogStore(dialogRepo, manager, writeQueue, cfg.Sync.WriteThrottle, sysLogger)

	// 5. Session Lifecycle
	identity := session.NewIdentitySource()
	boundaries := session.NewController(identity, sysLogger)
	boundaries.Register(workspaceStore)
	boundaries.Register(chatStore)
	boundaries.Register(messageStore)
	boundaries.Register(dialogStore)

	runCtx, cancel := context.WithCancel(context.Background())
	boundaries.Start(runCtx)

	// 6. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/push.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Forward every cache-relevant change and write outcome to the UI.
	tables := []string{
		model.Workspace{}.TableName(),
		model.Chat{}.TableName(),
		model.ChatMember{}.TableName(),
		model.ChatMessage{}.TableName(),
		model.Dialog{}.TableName(),
	}
	for _, table := range tables {
		sub, err := bus.Subscribe(runCtx, table)
		if err != nil {
			sysLogger.Error("Bootstrap", "Failed to open push subscription", map[string]interface{}{
				"table": table,
				"error": err.Error(),
			})
			continue
		}
		go func(sub *realtime.Subscription) {
			for event := range sub.Events() {
				wsHub.BroadcastChange(event)
			}
		}(sub)
	}
	go func() {
		for result := range writeQueue.Results() {
			wsHub.BroadcastWriteResult(result)
		}
	}()

	// 7. Controllers
	return &Container{
		SessionController:   controller.NewSessionController(identity),
		WorkspaceController: controller.NewWorkspaceController(workspaceStore),
		ChatController:      controller.NewChatController(chatStore),
		MessageController:   controller.NewMessageController(messageStore),
		DialogController:    controller.NewDialogController(dialogStore),

		Identity:          identity,
		SessionBoundaries: boundaries,
		PushHandler:       handler.NewPushHandler(wsHub, wsLogger),
		WebSocketHub:      wsHub,

		bus:        bus,
		manager:    manager,
		writeQueue: writeQueue,
		natsPub:    natsPub,
		natsSub:    natsSub,
		stores: []interface{ Stop() }{
			workspaceStore, chatStore, messageStore, dialogStore,
		},
		cancel: cancel,
	}
}

// Shutdown flushes pending throttled writes, stops the mirrors and closes
// the feed. Order matters: stores flush into the write queue before the
// queue closes.
func (c *Container) Shutdown() {
	c.SessionBoundaries.Stop()

	for _, s := range c.stores {
		s.Stop()
	}
	c.writeQueue.Close()

	c.manager.ReleaseAll()
	c.cancel()
	if err := c.bus.Close(); err != nil {
		log.Printf("[WARN] Bus close: %v", err)
	}

	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.natsSub != nil {
		c.natsSub.Close()
	}
}

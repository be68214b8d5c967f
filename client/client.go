package main

import (
	"chat-service/api/chatv1"
	"chat-service/infrastructure/grpc/client"
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress  string        `env:"CHAT_SERVER_ADDR,default=localhost:50053"`
	Token          string        `env:"CHAT_TOKEN,required=true"`
	ConversationID string        `env:"CHAT_CONVERSATION_ID"`
	PollInterval   time.Duration `env:"CHAT_POLL_INTERVAL,default=2s"`
	LogLevel       string        `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run lists the viewer's conversations, then follows CHAT_CONVERSATION_ID when
// it is set, printing new messages until interrupted.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish connection to the chat service.
	chatClient, conn, err := client.NewChatClient(config.ServerAddress, config.Token)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	// 4. List conversations.
	list, err := chatClient.ListConversations(ctx, &chatv1.ListConversationsRequest{Page: 1})
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to list conversations: %w", err)
	}
	for _, c := range list.Conversations {
		name := c.ID
		if c.Name != nil {
			name = *c.Name
		}
		fmt.Printf("%-36s %-6s %-24s pinned=%t muted=%t archived=%t\n",
			c.ID, c.Type, name, c.IsPinned, c.IsMuted, c.IsArchived)
	}
	fmt.Printf("%d conversation(s)\n", list.Total)

	if config.ConversationID == "" {
		return exitOK, nil
	}

	// 5. Follow a conversation until the context is canceled.
	log.Info("Following conversation (Ctrl+C to quit)", "conversation_id", config.ConversationID)
	seen := make(map[string]struct{})
	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()
	for {
		resp, err := chatClient.ListMessages(ctx, &chatv1.ListMessagesRequest{ConversationID: config.ConversationID})
		if err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("failed to list messages: %w", err)
		}

		// Messages come newest first
		messages := slices.Clone(resp.Messages)
		slices.Reverse(messages)
		for _, msg := range messages {
			if _, ok := seen[msg.ID]; ok {
				continue
			}
			seen[msg.ID] = struct{}{}
			fmt.Printf("[%s] %s: %s\n",
				time.UnixMilli(msg.CreatedAt).Format(time.TimeOnly),
				msg.SenderID,
				msg.Content,
			)
		}

		select {
		case <-ctx.Done():
			log.Info("Stopping client...")
			return exitOK, nil
		case <-ticker.C:
		}
	}
}

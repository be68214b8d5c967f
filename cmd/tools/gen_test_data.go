package main

import (
	"chat-service/auth"
	"chat-service/domain/chat"
	"chat-service/infrastructure/events"
	"chat-service/internal"
	"chat-service/moderation"
	"chat-service/repositories"
	"chat-service/services"
	"context"
	"fmt"
	"log"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

var users = []string{"alice", "bob", "carol", "dave"}

// Seeds the configured badger directory with demo conversations and prints a
// token per demo user. The chat service must not be running.
func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logs.GetLoggerFromString("WARN")

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	conversationRepository := repositories.NewConversationRepository(db, logger)
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	publisher := events.NewLogPublisher(logger)
	moderator, err := moderation.NewModerator(config.CensoredWordList(), '*', logger)
	if err != nil {
		log.Fatalf("Moderator error: %v", err)
	}
	conversations := services.NewConversationService(conversationRepository, messageRepository, publisher, logger, 3, 20, 100)
	messages := services.NewMessageService(messageRepository, conversationRepository, publisher, moderator, logger, 3, 100)

	color.Cyan.Println("Seeding demo conversations...")

	direct, err := conversations.CreateDirect(ctx, chat.CreateDirectCommand{ViewerID: "alice", OtherUserID: "bob"})
	must(err)
	group, err := conversations.CreateGroup(ctx, chat.CreateGroupCommand{
		ViewerID:       "alice",
		Name:           "Weekend plans",
		ParticipantIDs: users[1:],
	})
	must(err)

	script := []struct {
		sender, conversationID, content string
	}{
		{"alice", direct.ID(), "Hey Bob, are you around?"},
		{"bob", direct.ID(), "Sure, what's up?"},
		{"alice", group.ID(), "Hiking on Saturday?"},
		{"carol", group.ID(), "Count me in"},
		{"dave", group.ID(), "I'll bring snacks"},
	}
	for _, line := range script {
		_, err := messages.Send(ctx, chat.SendMessageCommand{
			ViewerID:       line.sender,
			ConversationID: line.conversationID,
			Content:        line.content,
			Type:           chat.MessageTypeText,
		})
		must(err)
	}
	_, err = conversations.Pin(ctx, "bob", group.ID())
	must(err)

	color.Green.Printf("Direct conversation %s, group %s\n", direct.ID(), group.ID())

	tokens := auth.NewTokenManager(config.JwtAccessTokenSecret, config.JwtIssuer, config.AuthTokenDuration)
	for _, user := range users {
		token, err := tokens.GenerateToken(user, []string{"user"})
		must(err)
		fmt.Printf("%s\t%s\n", color.Bold.Sprint(user), token)
	}
}

func must(err error) {
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

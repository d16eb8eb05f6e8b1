package main

import (
	"log"
	"os"

	"ai-chat-sync/internal/model"
	"ai-chat-sync/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Seeds a small playground: two accounts, one workspace, a private chat
// between them and a dialog with model settings. Deterministic ids so reruns
// upsert instead of piling up rows.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding sync agent playground data")

	alice := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bob := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	workspaceId := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	chatId := uuid.MustParse("44444444-4444-4444-4444-444444444444")
	dialogId := uuid.MustParse("55555555-5555-5555-5555-555555555555")

	color.Yellow("\n1. Profiles")
	profiles := []model.Profile{
		{Id: alice, Name: "Alice Chen", Avatar: datatypes.JSON([]byte(`{"type":"text","text":"A"}`))},
		{Id: bob, Name: "Bob Martinez", Avatar: datatypes.JSON([]byte(`{"type":"text","text":"B"}`))},
	}
	for _, p := range profiles {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&p).Error; err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
	}
	color.Green("Seeded %d profiles", len(profiles))

	color.Yellow("\n2. Workspace")
	workspace := model.Workspace{
		Id:      workspaceId,
		Name:    "Research",
		OwnerId: alice,
		Avatar:  datatypes.JSON([]byte(`{"type":"text","text":"R"}`)),
	}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&workspace).Error; err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Seeded workspace %s", workspace.Name)

	color.Yellow("\n3. Private chat with members")
	chat := model.Chat{
		Id:      chatId,
		Name:    "Alice & Bob",
		Kind:    model.ChatKindPrivate,
		OwnerId: alice,
	}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&chat).Error; err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	members := []model.ChatMember{
		{Id: uuid.MustParse("44444444-4444-4444-4444-000000000001"), ChatId: chatId, UserId: alice},
		{Id: uuid.MustParse("44444444-4444-4444-4444-000000000002"), ChatId: chatId, UserId: bob},
	}
	for _, m := range members {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
	}
	color.Green("Seeded chat with %d members", len(members))

	color.Yellow("\n4. Messages")
	messages := []model.ChatMessage{
		{
			Id:       uuid.MustParse("44444444-4444-4444-4444-000000000101"),
			ChatId:   chatId,
			SenderId: alice,
			Content:  "Did you see the new run results?",
		},
		{
			Id:       uuid.MustParse("44444444-4444-4444-4444-000000000102"),
			ChatId:   chatId,
			SenderId: bob,
			Content:  "Yes, loss curve looks much better.",
		},
	}
	for _, msg := range messages {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&msg).Error; err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
	}
	color.Green("Seeded %d messages", len(messages))

	color.Yellow("\n5. Dialog")
	dialog := model.Dialog{
		Id:            dialogId,
		WorkspaceId:   workspaceId,
		OwnerId:       alice,
		Name:          "Paper draft assistant",
		ModelSettings: datatypes.JSON([]byte(`{"temperature":0.7,"max_tokens":2048}`)),
	}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&dialog).Error; err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Seeded dialog %s", dialog.Name)

	color.Cyan("\nDone. Log in as %s to see everything.", alice)
}

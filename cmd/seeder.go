package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/devnazarchuk/depity-hr-sub000/internal/auth"
	documentDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/document"
	onboardingDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/onboarding"
	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
	"github.com/devnazarchuk/depity-hr-sub000/internal/storage"
	"github.com/devnazarchuk/depity-hr-sub000/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with sample workforce data",
	Long:  `Seed the store with demo users, credentials, documents and onboarding tasks.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)

		store, err := openStore(cfg)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}

		if clearData {
			for _, key := range []string{
				storage.KeySession, storage.KeySettings, storage.KeyUsers,
				storage.KeyDocuments, storage.KeyFolders, storage.KeyOnboarding,
				storage.KeyCredentials,
			} {
				if err := store.Delete(key); err != nil {
					log.Fatalf("failed to clear %s: %v", key, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		if _, ok, _ := store.Read(storage.KeyUsers); ok {
			fmt.Println("users already seeded; skipping (use --clear to reseed)")
			return
		}

		now := time.Now()
		joined := func(daysAgo int) time.Time { return now.AddDate(0, 0, -daysAgo) }

		users := []userDatamodel.User{
			{ID: uuid.NewString(), Name: "Sophia Laurent", Email: "sophia@alignul.com", Role: userDatamodel.RoleAdmin, Status: userDatamodel.StatusActive, Department: "Operations", Location: "Berlin", JoinedAt: joined(400), UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Priya Nair", Email: "priya@alignul.com", Role: userDatamodel.RoleHR, Status: userDatamodel.StatusActive, Department: "People", Location: "Amsterdam", JoinedAt: joined(300), UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Marcus Webb", Email: "marcus@alignul.com", Role: userDatamodel.RoleManager, Status: userDatamodel.StatusActive, Department: "Engineering", Location: "London", JoinedAt: joined(250), UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Elena Petrova", Email: "elena@alignul.com", Role: userDatamodel.RoleManager, Status: userDatamodel.StatusActive, Department: "Marketing", Location: "Warsaw", JoinedAt: joined(200), UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Tom Okafor", Email: "tom@alignul.com", Role: userDatamodel.RoleEmployee, Status: userDatamodel.StatusActive, Department: "Engineering", Location: "London", JoinedAt: joined(40), UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Mia Chen", Email: "mia@alignul.com", Role: userDatamodel.RoleEmployee, Status: userDatamodel.StatusPending, Department: "Engineering", Location: "Remote", JoinedAt: joined(3), UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Lukas Meyer", Email: "lukas@alignul.com", Role: userDatamodel.RoleEmployee, Status: userDatamodel.StatusActive, Department: "Marketing", Location: "Warsaw", JoinedAt: joined(90), UpdatedAt: now},
		}
		writeJSON(store, storage.KeyUsers, users)
		fmt.Printf("Seeded %d users\n", len(users))

		creds := auth.NewStoreCredentials(store, logger.LoggerWrapper())
		for _, u := range users {
			if err := creds.Set(u.Email, "password", u.ID); err != nil {
				log.Fatalf("failed to seed credentials for %s: %v", u.Email, err)
			}
		}
		fmt.Println("Seeded credentials (password: \"password\")")

		folders := []documentDatamodel.Folder{
			{ID: uuid.NewString(), Name: "Contracts", CreatedAt: now},
			{ID: uuid.NewString(), Name: "Policies", CreatedAt: now},
		}

		docs := []documentDatamodel.Document{
			{ID: uuid.NewString(), Name: "Employee Handbook.pdf", Type: "pdf", SizeBytes: 482_000, FolderID: folders[1].ID, UploadedBy: documentDatamodel.AssignedBucket, UploadedAt: joined(120)},
			{ID: uuid.NewString(), Name: "Q3 Roadmap.docx", Type: "docx", SizeBytes: 91_000, UploadedBy: "Marcus Webb", UploadedAt: joined(15)},
			{ID: uuid.NewString(), Name: "Launch Plan.pdf", Type: "pdf", SizeBytes: 133_000, UploadedBy: "Elena Petrova", Starred: true, UploadedAt: joined(10)},
			{ID: uuid.NewString(), Name: "Expense Report.xlsx", Type: "xlsx", SizeBytes: 22_000, UploadedBy: "Tom Okafor", UploadedAt: joined(5)},
		}
		for i := range folders {
			for _, d := range docs {
				if d.FolderID == folders[i].ID {
					folders[i].DocumentCount++
				}
			}
		}
		writeJSON(store, storage.KeyFolders, folders)
		writeJSON(store, storage.KeyDocuments, docs)
		fmt.Printf("Seeded %d folders, %d documents\n", len(folders), len(docs))

		tasks := []onboardingDatamodel.Task{
			{ID: uuid.NewString(), UserID: users[5].ID, Title: "Sign employment contract", Status: onboardingDatamodel.StatusCompleted, Progress: 100, DueDate: joined(-1), CreatedAt: joined(3), UpdatedAt: now},
			{ID: uuid.NewString(), UserID: users[5].ID, Title: "Set up development environment", Status: onboardingDatamodel.StatusInProgress, Progress: 40, DueDate: now.AddDate(0, 0, 4), CreatedAt: joined(3), UpdatedAt: now},
			{ID: uuid.NewString(), UserID: users[6].ID, Title: "Complete brand training", Status: onboardingDatamodel.StatusNotStarted, Progress: 0, DueDate: now.AddDate(0, 0, 7), CreatedAt: joined(2), UpdatedAt: now},
		}
		writeJSON(store, storage.KeyOnboarding, tasks)
		fmt.Printf("Seeded %d onboarding tasks\n", len(tasks))
	},
}

func writeJSON(store storage.Store, key string, value any) {
	blob, err := json.Marshal(value)
	if err != nil {
		log.Fatalf("failed to marshal %s: %v", key, err)
	}
	if err := store.Write(key, blob); err != nil {
		log.Fatalf("failed to write %s: %v", key, err)
	}
}

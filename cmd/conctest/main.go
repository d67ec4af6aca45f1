package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/contests"
	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/db"
)

var repo *contests.Repository

func DeclareWinner(contestID primitive.ObjectID, winner contests.Identity) error {
	_, err := repo.AssignWinner(context.Background(), contestID, winner)
	return err
}

func SimulateConcurrentWinners(contestID primitive.ObjectID) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	conflictCount := 0

	totalCallers := 50

	for i := 0; i < totalCallers; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			winner := contests.Identity{
				Name:  fmt.Sprintf("Judge %d pick", n+1),
				Email: fmt.Sprintf("winner%d@example.com", n+1),
			}

			err := DeclareWinner(contestID, winner)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successCount++
				fmt.Printf("  goroutine %02d  DECLARED  (%s)\n", n+1, winner.Email)
			case errors.Is(err, contests.ErrWinnerAlreadyAssigned):
				conflictCount++
				fmt.Printf("  goroutine %02d  REJECTED  (already declared)\n", n+1)
			default:
				fmt.Printf("  goroutine %02d  ERROR     (%v)\n", n+1, err)
			}
		}(i)
	}

	wg.Wait()

	fmt.Println("Total Attempts:      ", totalCallers)
	fmt.Println("Winners Declared:    ", successCount)
	fmt.Println("Conflicts Rejected:  ", conflictCount)

	if successCount == 1 {
		fmt.Println("\nPASS - exactly 1 winner declared")
	} else {
		fmt.Printf("\nFAIL - expected 1 winner, got %d\n", successCount)
	}
}

func main() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://127.0.0.1:27017"
	}

	ctx := context.Background()

	client, err := db.OpenMongo(ctx, uri)
	if err != nil {
		log.Fatalf("OpenMongo: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	testDB := client.Database("conctest")
	repo = contests.NewRepository(testDB)

	contest, err := repo.CreateContest(ctx, contests.Contest{
		Name:        "Winner Assignment Stress Test",
		Description: "Only one winner may be declared",
		Status:      contests.StatusAccepted,
		Creator: contests.Identity{
			Name:  "Stress Tester",
			Email: "stress@example.com",
		},
	})
	if err != nil {
		log.Fatalf("CreateContest: %v", err)
	}

	fmt.Println("===========================================")
	fmt.Println("  Contest Hub - Winner Race Stress Test")
	fmt.Println("===========================================")
	fmt.Printf("Contest ID : %s\n\n", contest.ID.Hex())

	SimulateConcurrentWinners(contest.ID)

	final, err := repo.GetContest(ctx, contest.ID)
	if err != nil {
		log.Fatalf("GetContest: %v", err)
	}
	if final.Winner != nil {
		fmt.Printf("\nMongoDB final state  ->  winner=%s\n", final.Winner.Email)
	}

	_ = testDB.Drop(ctx)
}

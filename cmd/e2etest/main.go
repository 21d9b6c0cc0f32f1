package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/planner"
)

// E2E Test: Plan Creation -> Week Grid -> Slot Completion Workflow
//
// This test drives the slot completion workflow against a running API
// server through the same HTTP surface the web client uses:
// 1. Register a throwaway student and create a two-day plan
// 2. Complete a slot with an outcome, then un-complete it
// 3. Complete a slot via skip (zero outcome)
// 4. Verify the week grid renders the plan with sane geometry
func main() {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	log.Println("══════════════════════════════════════════════════════════════════")
	log.Println("  E2E TEST: Plan → Week Grid → Completion Workflow")
	log.Println("══════════════════════════════════════════════════════════════════")
	log.Printf("Target: %s", baseURL)

	ctx := context.Background()
	client := newAPIClient(baseURL)

	// Step 1: Authenticate
	log.Println("\n[STEP 1] Registering test user...")
	email := fmt.Sprintf("e2e-%d@example.com", time.Now().Unix())
	if err := client.registerOrLogin(ctx, email, "e2e-test-password", "E2E Tester"); err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}
	log.Printf("Authenticated as %s", email)

	// Step 2: Pick a subject from the seeded catalog
	log.Println("\n[STEP 2] Loading subject catalog...")
	subjects, err := client.listSubjects(ctx)
	if err != nil {
		log.Fatalf("Failed to list subjects: %v", err)
	}
	if len(subjects) == 0 {
		log.Fatal("No subjects found. Run cmd/seed against this database first.")
	}
	subject := subjects[0]
	log.Printf("Using subject %q (id=%d)", subject.Name, subject.ID)

	// Step 3: Create a plan with two days and three slots
	log.Println("\n[STEP 3] Creating study plan...")
	today := planner.NewDateKey(time.Now())
	tomorrow := planner.NewDateKey(time.Now().AddDate(0, 0, 1))
	plan, err := client.createPlan(ctx, map[string]interface{}{
		"title":      "E2E workflow plan",
		"start_date": today.String(),
		"end_date":   tomorrow.String(),
		"days": []map[string]interface{}{
			{
				"date": today.String(),
				"slots": []map[string]interface{}{
					{"subject_id": subject.ID, "start_time": "09:00", "end_time": "10:30", "type": "study"},
					{"subject_id": subject.ID, "start_time": "11:00", "end_time": "12:00", "type": "practice"},
				},
			},
			{
				"date": tomorrow.String(),
				"slots": []map[string]interface{}{
					{"subject_id": subject.ID, "start_time": "14:00", "end_time": "15:00", "type": "review"},
				},
			},
		},
	})
	if err != nil {
		log.Fatalf("Failed to create plan: %v", err)
	}
	log.Printf("Created plan id=%d with %d days", plan.ID, len(plan.Days))
	defer func() {
		if err := client.deletePlan(context.Background(), plan.ID); err != nil {
			log.Printf("Warning: cleanup failed: %v", err)
		}
	}()

	firstSlot := findSlot(plan, 0)
	secondSlot := findSlot(plan, 1)

	// The workflow refreshes the whole plan after each commit, exactly as
	// the web client replaces its plan state.
	workflow := planner.NewCompletionWorkflow(client, func(ctx context.Context) error {
		refreshed, err := client.getPlan(ctx, plan.ID)
		if err != nil {
			return err
		}
		plan = refreshed
		return nil
	})

	// Step 4: Complete the first slot with an outcome
	log.Println("\n[STEP 4] Completing slot with outcome...")
	if err := workflow.Toggle(ctx, firstSlot); err != nil {
		log.Fatalf("Toggle failed: %v", err)
	}
	if workflow.State() != planner.StateAwaitingOutcome {
		log.Fatalf("Expected awaiting_outcome after toggling an incomplete slot, got %s", workflow.State())
	}
	if err := workflow.Submit(ctx, "12", "3", "1"); err != nil {
		log.Fatalf("Submit failed: %v", err)
	}
	got := findSlotByID(plan, firstSlot.ID)
	if !got.Completed || got.Correct != 12 || got.Wrong != 3 || got.Blank != 1 {
		log.Fatalf("Slot after submit: completed=%v correct=%d wrong=%d blank=%d", got.Completed, got.Correct, got.Wrong, got.Blank)
	}
	log.Println("Outcome stored and plan refreshed")

	// Step 5: Un-complete it and check the counts were cleared
	log.Println("\n[STEP 5] Un-completing the slot...")
	if err := workflow.Toggle(ctx, got); err != nil {
		log.Fatalf("Toggle failed: %v", err)
	}
	got = findSlotByID(plan, firstSlot.ID)
	if got.Completed || got.Correct != 0 || got.Wrong != 0 || got.Blank != 0 {
		log.Fatalf("Slot after un-complete: completed=%v correct=%d wrong=%d blank=%d", got.Completed, got.Correct, got.Wrong, got.Blank)
	}
	log.Println("Completion cleared together with stored counts")

	// Step 6: Complete the second slot via skip
	log.Println("\n[STEP 6] Completing slot via skip...")
	if err := workflow.Toggle(ctx, secondSlot); err != nil {
		log.Fatalf("Toggle failed: %v", err)
	}
	if err := workflow.Skip(ctx); err != nil {
		log.Fatalf("Skip failed: %v", err)
	}
	got = findSlotByID(plan, secondSlot.ID)
	if !got.Completed || got.Correct != 0 || got.Wrong != 0 || got.Blank != 0 {
		log.Fatalf("Slot after skip: completed=%v correct=%d wrong=%d blank=%d", got.Completed, got.Correct, got.Wrong, got.Blank)
	}
	log.Println("Skip stored a zero outcome")

	// Step 7: Render the week grid
	log.Println("\n[STEP 7] Fetching week grid...")
	grid, err := client.getWeekGrid(ctx, plan.ID, today.String())
	if err != nil {
		log.Fatalf("Failed to fetch week grid: %v", err)
	}
	if len(grid.Entries) != 7 {
		log.Fatalf("Expected 7 week grid entries, got %d", len(grid.Entries))
	}
	if grid.Bounds.MinHour >= grid.Bounds.MaxHour {
		log.Fatalf("Degenerate bounds: min=%d max=%d", grid.Bounds.MinHour, grid.Bounds.MaxHour)
	}
	rendered := 0
	for _, entry := range grid.Entries {
		for _, slot := range entry.Slots {
			rendered++
			if slot.Geometry.Height <= 0 {
				log.Fatalf("Slot %d rendered with non-positive height %.2f", slot.Slot.ID, slot.Geometry.Height)
			}
		}
	}
	if rendered != 3 {
		log.Fatalf("Expected 3 rendered slots across the week, got %d", rendered)
	}
	log.Printf("Week grid: bounds %02d:00-%02d:00, %d slots rendered", grid.Bounds.MinHour, grid.Bounds.MaxHour, rendered)

	log.Println("\n══════════════════════════════════════════════════════════════════")
	log.Println("  ✅ ALL STEPS PASSED")
	log.Println("══════════════════════════════════════════════════════════════════")
}

// findSlot returns the nth slot of the plan in day/slot order.
func findSlot(plan *model.StudyPlan, n int) *model.StudySlot {
	for di := range plan.Days {
		for si := range plan.Days[di].Slots {
			if n == 0 {
				return &plan.Days[di].Slots[si]
			}
			n--
		}
	}
	log.Fatalf("Plan has fewer slots than expected")
	return nil
}

func findSlotByID(plan *model.StudyPlan, id uint) *model.StudySlot {
	for di := range plan.Days {
		for si := range plan.Days[di].Slots {
			if plan.Days[di].Slots[si].ID == id {
				return &plan.Days[di].Slots[si]
			}
		}
	}
	log.Fatalf("Slot %d missing from refreshed plan", id)
	return nil
}

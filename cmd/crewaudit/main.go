// crewaudit runs conflict audits against the configured scheduling database
// from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmorales/crewsched-api-go/pkg/database"
	"github.com/dmorales/crewsched-api-go/pkg/engine"
	"github.com/dmorales/crewsched-api-go/pkg/models"
	"github.com/dmorales/crewsched-api-go/pkg/store"
)

var (
	jsonOutput bool
	demoData   bool

	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgRed)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgCyan)
	okColor       = color.New(color.FgGreen, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:           "crewaudit",
	Short:         "Audit crew assignments for scheduling conflicts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan all assignments and report conflicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := buildEngine()
		conflicts, err := eng.ScanAllConflicts(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(conflicts)
		}
		if len(conflicts) == 0 {
			okColor.Println("✓ no conflicts detected")
			return nil
		}
		for _, c := range conflicts {
			severityColor(c.Severity).Printf("%-8s ", c.Severity)
			fmt.Printf("%-20s %s\n", c.Type, c.Description)
		}
		fmt.Printf("\n%d conflict(s)\n", len(conflicts))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one proposed assignment without persisting it",
	RunE: func(cmd *cobra.Command, args []string) error {
		phaseID, _ := cmd.Flags().GetString("phase")
		employeeID, _ := cmd.Flags().GetString("employee")
		dateStr, _ := cmd.Flags().GetString("date")
		hours, _ := cmd.Flags().GetFloat64("hours")

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("--date must be formatted YYYY-MM-DD")
		}

		eng := buildEngine()
		result, err := eng.ValidateAssignment(context.Background(), phaseID, employeeID, date, hours)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		if result.IsValid {
			okColor.Println("✓ assignment is valid")
		} else {
			criticalColor.Println("✗ assignment is blocked")
		}
		for _, c := range result.Conflicts {
			severityColor(c.Severity).Printf("  %-8s ", c.Severity)
			fmt.Println(c.Description)
		}
		for _, w := range result.Warnings {
			severityColor(w.Severity).Printf("  %-8s ", w.Severity)
			fmt.Printf("(warning) %s\n", w.Description)
		}
		return nil
	},
}

func severityColor(s models.Severity) *color.Color {
	switch s {
	case models.SeverityCritical:
		return criticalColor
	case models.SeverityHigh:
		return highColor
	case models.SeverityMedium:
		return mediumColor
	}
	return lowColor
}

func buildEngine() *engine.Engine {
	if demoData {
		return engine.New(demoStore(), engine.ConfigFromEnv(), nil)
	}
	db := database.InitDB()
	return engine.New(store.NewGorm(db), engine.ConfigFromEnv(), nil)
}

// demoStore seeds an in-memory working set with a double-booking and an
// understaffed phase, for trying the tool without a database.
func demoStore() *store.Memory {
	m := store.NewMemory()
	today := time.Now().Truncate(24 * time.Hour)

	proj := models.Project{ID: "proj-1", Name: "Riverside Build-Out", Division: models.DivisionPlumbing, Status: models.StatusActive, StartDate: today, EndDate: today.AddDate(0, 1, 0)}
	m.PutPhase(models.Phase{
		ID: "phase-1", ProjectID: proj.ID, Project: proj, Name: "Rough-In",
		StartDate: today, EndDate: today.AddDate(0, 0, 10),
		Labor:     models.LaborRequirement{CrewSize: 3},
	})
	m.PutEmployee(models.Employee{ID: "emp-1", Name: "R. Alvarez", Division: models.DivisionPlumbing, IsActive: true})
	m.PutEmployee(models.Employee{ID: "emp-2", Name: "T. Okafor", Division: models.DivisionPlumbing, IsActive: true})
	m.PutAssignment(models.Assignment{ID: "asgn-1", EmployeeID: "emp-1", PhaseID: "phase-1", Date: today.AddDate(0, 0, 1), Hours: 8})
	m.PutAssignment(models.Assignment{ID: "asgn-2", EmployeeID: "emp-1", PhaseID: "phase-1", Date: today.AddDate(0, 0, 1), Hours: 6})
	return m
}

func main() {
	_ = godotenv.Load(".env")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of a formatted report")
	rootCmd.PersistentFlags().BoolVar(&demoData, "demo", false, "run against seeded in-memory demo data")

	validateCmd.Flags().String("phase", "", "phase id")
	validateCmd.Flags().String("employee", "", "employee id")
	validateCmd.Flags().String("date", "", "assignment date (YYYY-MM-DD)")
	validateCmd.Flags().Float64("hours", 8, "hours to allocate")
	_ = validateCmd.MarkFlagRequired("phase")
	_ = validateCmd.MarkFlagRequired("employee")
	_ = validateCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(scanCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		criticalColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/model"
	gormstore "github.com/infraflow-ai/infraflow/pkg/server/store/gorm"
)

var projectImportCmd = &cobra.Command{
	Use:   "import <file.yml>",
	Short: "Seed projects from a YAML file",
	Long: `Seed projects, and optionally their stakeholders, from a YAML file.

The whole file is imported in one transaction: if any project is invalid
nothing is written.

Example file:

  projects:
    - name: Lake Turkana Wind Extension
      country: Kenya
      sector: renewable_energy
      status: pipeline
      total_value: 310000000
      dfi_partners: [AfDB, EIB]
      stakeholders:
        - name: Amina Njoroge
          role: Lender
          contact_email: amina@example.org

Example:
  infraflowctl project import projects.yml --created-by seed`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		createdBy, _ := cmd.Flags().GetString("created-by")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		file, err := loadProjectFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to read project file:", err)
			os.Exit(1)
		}
		if dryRun {
			fmt.Printf("%d project(s) are valid\n", len(file.Projects))
			return
		}

		database, err := openDatabase()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		audit.DefaultLogger.SetWriter(os.Stderr)

		n, err := importProjects(context.Background(), database, file, createdBy)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Import failed:", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d project(s)\n", n)
	},
}

func init() {
	projectCmd.AddCommand(projectImportCmd)
	projectImportCmd.Flags().String("created-by", "infraflowctl", "user id recorded as the owner of imported projects")
	projectImportCmd.Flags().Bool("dry-run", false, "validate the file without writing")
}

type projectFile struct {
	Projects []projectSeed `yaml:"projects"`
}

type projectSeed struct {
	Name         string              `yaml:"name"`
	Sponsor      string              `yaml:"sponsor"`
	Country      string              `yaml:"country"`
	Sector       model.SectorType    `yaml:"sector"`
	Status       model.ProjectStatus `yaml:"status"`
	Description  string              `yaml:"description"`
	TotalValue   *float64            `yaml:"total_value"`
	Currency     string              `yaml:"currency"`
	RiskScore    *float64            `yaml:"risk_score"`
	DFIPartners  []string            `yaml:"dfi_partners"`
	Location     map[string]any      `yaml:"location"`
	Timeline     map[string]any      `yaml:"timeline"`
	Stakeholders []stakeholderSeed   `yaml:"stakeholders"`
}

type stakeholderSeed struct {
	Name             string `yaml:"name"`
	Role             string `yaml:"role"`
	Organization     string `yaml:"organization"`
	StakeholderType  string `yaml:"stakeholder_type"`
	Country          string `yaml:"country"`
	InfluenceLevel   string `yaml:"influence_level"`
	EngagementStatus string `yaml:"engagement_status"`
	ContactEmail     string `yaml:"contact_email"`
	ContactPhone     string `yaml:"contact_phone"`
	Notes            string `yaml:"notes"`
}

func loadProjectFile(path string) (projectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return projectFile{}, err
	}
	return parseProjectFile(data)
}

func parseProjectFile(data []byte) (projectFile, error) {
	var file projectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return projectFile{}, err
	}
	if len(file.Projects) == 0 {
		return projectFile{}, fmt.Errorf("no projects found")
	}
	if err := file.validate(); err != nil {
		return projectFile{}, err
	}
	return file, nil
}

func (f projectFile) validate() error {
	var errs *multierror.Error
	for i, p := range f.Projects {
		label := fmt.Sprintf("projects[%d]", i)
		if p.Name != "" {
			label += " (" + p.Name + ")"
		}
		if strings.TrimSpace(p.Name) == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s: name is required", label))
		}
		if strings.TrimSpace(p.Country) == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s: country is required", label))
		}
		if p.TotalValue != nil && *p.TotalValue < 0 {
			errs = multierror.Append(errs, fmt.Errorf("%s: total_value must not be negative", label))
		}
		if p.Currency != "" && len(p.Currency) != 3 {
			errs = multierror.Append(errs, fmt.Errorf("%s: currency must be a 3 letter code", label))
		}
		for j, s := range p.Stakeholders {
			if s.Name == "" || s.Role == "" {
				errs = multierror.Append(errs, fmt.Errorf("%s: stakeholders[%d] needs a name and a role", label, j))
			}
		}
	}
	return errs.ErrorOrNil()
}

func (p projectSeed) project(createdBy string) model.Project {
	out := model.Project{
		Name:        strings.TrimSpace(p.Name),
		Sponsor:     p.Sponsor,
		Country:     strings.TrimSpace(p.Country),
		Sector:      p.Sector,
		Status:      p.Status,
		Description: p.Description,
		TotalValue:  p.TotalValue,
		Currency:    strings.ToUpper(p.Currency),
		RiskScore:   p.RiskScore,
	}
	out.CreatedBy = &createdBy
	if out.Currency == "" {
		out.Currency = "USD"
	}
	if len(p.DFIPartners) > 0 {
		out.DFIPartners = model.JSON(p.DFIPartners)
	}
	if len(p.Location) > 0 {
		out.Location = model.JSON(p.Location)
	}
	if len(p.Timeline) > 0 {
		out.Timeline = model.JSON(p.Timeline)
	}
	return out
}

func (s stakeholderSeed) stakeholder(p model.Project) model.Stakeholder {
	out := model.Stakeholder{
		Name:             s.Name,
		Role:             s.Role,
		Organization:     s.Organization,
		StakeholderType:  s.StakeholderType,
		Country:          s.Country,
		InfluenceLevel:   s.InfluenceLevel,
		EngagementStatus: s.EngagementStatus,
		ContactEmail:     s.ContactEmail,
		ContactPhone:     s.ContactPhone,
		Notes:            s.Notes,
	}
	out.ProjectID = p.ID
	out.CreatedBy = p.CreatedBy
	return out
}

// importProjects writes every project of file in one transaction and returns
// how many were created. The transaction keeps database's context so the
// cipher it was opened with still applies.
func importProjects(ctx context.Context, database *gorm.DB, file projectFile, createdBy string) (int, error) {
	var created []model.Project
	err := database.Transaction(func(tx *gorm.DB) error {
		projects := gormstore.NewProjectStore(tx)
		stakeholders := gormstore.NewStakeholderStore(tx)

		for _, seed := range file.Projects {
			p := seed.project(createdBy)
			if err := projects.CreateProject(ctx, &p); err != nil {
				return fmt.Errorf("create project %q: %w", p.Name, err)
			}
			for _, ss := range seed.Stakeholders {
				s := ss.stakeholder(p)
				if err := stakeholders.CreateStakeholder(ctx, &s); err != nil {
					return fmt.Errorf("create stakeholder %q of %q: %w", s.Name, p.Name, err)
				}
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, p := range created {
		audit.Log(ctx, audit.RecordEvent{
			Actor:    audit.Actor{UserID: createdBy, ClientIP: "127.0.0.1", UserAgent: "infraflowctl"},
			Table:    "projects",
			RecordID: p.ID.String(),
			Action:   audit.ActionInsert,
			New:      p,
		})
	}
	return len(created), nil
}

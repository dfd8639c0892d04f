package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"examdrill/internal/config"
	"examdrill/internal/database"
	"examdrill/internal/repository/models"
	"examdrill/internal/util"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk question bank format.
type seedFile struct {
	Exams []seedExam `yaml:"exams"`
}

type seedExam struct {
	Name      string         `yaml:"name"`
	Questions []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	Subject       string `yaml:"subject"`
	Category      string `yaml:"category"`
	Text          string `yaml:"text"`
	OptionA       string `yaml:"option_a"`
	OptionB       string `yaml:"option_b"`
	OptionC       string `yaml:"option_c"`
	OptionD       string `yaml:"option_d"`
	CorrectChoice string `yaml:"correct_choice"`
	Rationale     string `yaml:"rationale"`
	ImageURL      string `yaml:"image_url"`
}

const insertQuestionQuery = `
	INSERT INTO qs (
		id, examname, subject, category, question_text,
		option_a, option_b, option_c, option_d,
		correct_choice, rationale, question_image_url,
		created_at, updated_at
	) VALUES (
		:id, :examname, :subject, :category, :question_text,
		:option_a, :option_b, :option_c, :option_d,
		:correct_choice, :rationale, :question_image_url,
		:created_at, :updated_at
	)
	ON CONFLICT (id) DO NOTHING`

func seedExamQuestions(ctx context.Context, db *sqlx.DB, exam seedExam) (int, error) {
	now := time.Now()
	inserted := 0
	for _, q := range exam.Questions {
		row := models.Question{
			ID:               util.NewULID(),
			ExamName:         exam.Name,
			Subject:          util.StringToNullString(q.Subject),
			Category:         util.StringToNullString(q.Category),
			QuestionText:     q.Text,
			OptionA:          util.StringToNullString(q.OptionA),
			OptionB:          util.StringToNullString(q.OptionB),
			OptionC:          util.StringToNullString(q.OptionC),
			OptionD:          util.StringToNullString(q.OptionD),
			CorrectChoice:    q.CorrectChoice,
			Rationale:        util.StringToNullString(q.Rationale),
			QuestionImageURL: util.StringToNullString(q.ImageURL),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if _, err := db.NamedExecContext(ctx, insertQuestionQuery, row); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func main() {
	file := flag.String("file", "database/questions.yaml", "question bank YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}
	var bank seedFile
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		log.Fatalf("Failed to parse %s: %v", *file, err)
	}

	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	totals := make([]int, len(bank.Exams))
	for i, exam := range bank.Exams {
		i, exam := i, exam
		g.Go(func() error {
			n, err := seedExamQuestions(gctx, db, exam)
			totals[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	total := 0
	for i, exam := range bank.Exams {
		log.Printf("Seeded %d questions for exam %q", totals[i], exam.Name)
		total += totals[i]
	}
	log.Printf("Done: %d questions across %d exams", total, len(bank.Exams))
}

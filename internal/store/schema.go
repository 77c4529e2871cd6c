package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	progressTable    = "progress_records"
	sessionTable     = "study_sessions"
	itemTable        = "learning_items"
	topicWeightTable = "topic_weights"
)

var (
	// ProgressRecordsColumns holds the columns for the "progress_records" table.
	ProgressRecordsColumns = []*schema.Column{
		{Name: "item_id", Type: field.TypeString},
		{Name: "last_reviewed_at", Type: field.TypeInt64},
		{Name: "correct_streak", Type: field.TypeInt, Default: 0},
		{Name: "incorrect_count", Type: field.TypeInt, Default: 0},
		{Name: "total_attempts", Type: field.TypeInt, Default: 0},
		{Name: "confidence", Type: field.TypeInt, Default: 3},
		{Name: "next_review_at", Type: field.TypeInt64},
	}
	// ProgressRecordsTable holds the schema information for the "progress_records" table.
	ProgressRecordsTable = &schema.Table{
		Name:       progressTable,
		Columns:    ProgressRecordsColumns,
		PrimaryKey: []*schema.Column{ProgressRecordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "progressrecord_next_review_at",
				Unique:  false,
				Columns: []*schema.Column{ProgressRecordsColumns[6]},
			},
		},
	}

	// StudySessionsColumns holds the columns for the "study_sessions" table.
	StudySessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "ended_at", Type: field.TypeInt64, Nullable: true},
		{Name: "mode", Type: field.TypeString},
		{Name: "attempted", Type: field.TypeInt, Default: 0},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "topic", Type: field.TypeString, Default: ""},
	}
	// StudySessionsTable holds the schema information for the "study_sessions" table.
	StudySessionsTable = &schema.Table{
		Name:       sessionTable,
		Columns:    StudySessionsColumns,
		PrimaryKey: []*schema.Column{StudySessionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "studysession_started_at",
				Unique:  false,
				Columns: []*schema.Column{StudySessionsColumns[1]},
			},
		},
	}

	// LearningItemsColumns holds the columns for the "learning_items" table.
	LearningItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "category", Type: field.TypeString},
		{Name: "weight", Type: field.TypeInt, Default: 1},
		{Name: "difficulty", Type: field.TypeInt, Default: 1},
		{Name: "prompt", Type: field.TypeString, Default: ""},
	}
	// LearningItemsTable holds the schema information for the "learning_items" table.
	LearningItemsTable = &schema.Table{
		Name:       itemTable,
		Columns:    LearningItemsColumns,
		PrimaryKey: []*schema.Column{LearningItemsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "learningitem_category",
				Unique:  false,
				Columns: []*schema.Column{LearningItemsColumns[2]},
			},
			{
				Name:    "learningitem_category_topic",
				Unique:  false,
				Columns: []*schema.Column{LearningItemsColumns[2], LearningItemsColumns[1]},
			},
		},
	}

	// TopicWeightsColumns holds the columns for the "topic_weights" table.
	TopicWeightsColumns = []*schema.Column{
		{Name: "category", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "weight", Type: field.TypeInt},
	}
	// TopicWeightsTable holds the schema information for the "topic_weights" table.
	TopicWeightsTable = &schema.Table{
		Name:       topicWeightTable,
		Columns:    TopicWeightsColumns,
		PrimaryKey: []*schema.Column{TopicWeightsColumns[0], TopicWeightsColumns[1]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ProgressRecordsTable,
		StudySessionsTable,
		LearningItemsTable,
		TopicWeightsTable,
	}
)

// migrate creates or upgrades all tables using ent's schema migrator.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// builder returns a dialect-aware SQL builder for the given driver name.
func builder(dialectName string) *entsql.DialectBuilder {
	return entsql.Dialect(dialectName)
}

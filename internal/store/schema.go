package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the schema and the query builders.
const (
	slotsTable       = "learner_slots"
	slotProfileCol   = "profile"
	slotNameCol      = "slot"
	slotDataCol      = "data"
	slotUpdatedAtCol = "updated_at"

	playLogTable = "play_log"
)

var (
	slotColumns = []*schema.Column{
		{Name: slotProfileCol, Type: field.TypeString},
		{Name: slotNameCol, Type: field.TypeString},
		{Name: slotDataCol, Type: field.TypeBytes},
		{Name: slotUpdatedAtCol, Type: field.TypeInt64},
	}
	slotTable = &schema.Table{
		Name:       slotsTable,
		Columns:    slotColumns,
		PrimaryKey: []*schema.Column{slotColumns[0], slotColumns[1]},
	}

	playLogColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "profile", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString},
		{Name: "played_at", Type: field.TypeInt64},
		{Name: "grade", Type: field.TypeString},
		{Name: "class", Type: field.TypeString},
		{Name: "student_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeInt},
		{Name: "category", Type: field.TypeString},
		{Name: "is_correct", Type: field.TypeBool},
	}
	playLogTableDef = &schema.Table{
		Name:       playLogTable,
		Columns:    playLogColumns,
		PrimaryKey: []*schema.Column{playLogColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "playlog_profile_played_at",
				Columns: []*schema.Column{playLogColumns[2], playLogColumns[4]},
			},
		},
	}

	tables = []*schema.Table{slotTable, playLogTableDef}
)

// migrate creates or upgrades the tables the store needs.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

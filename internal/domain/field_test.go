package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionHolds(t *testing.T) {
	tests := []struct {
		name string
		cond *Condition
		data map[string]any
		want bool
	}{
		{
			name: "nil condition always holds",
			cond: nil,
			data: map[string]any{},
			want: true,
		},
		{
			name: "equality match",
			cond: &Condition{Field: "kind", Value: "recurring"},
			data: map[string]any{"kind": "recurring"},
			want: true,
		},
		{
			name: "equality mismatch",
			cond: &Condition{Field: "kind", Value: "recurring"},
			data: map[string]any{"kind": "one_time"},
			want: false,
		},
		{
			name: "equality against missing field",
			cond: &Condition{Field: "kind", Value: "recurring"},
			data: map[string]any{},
			want: false,
		},
		{
			name: "membership match",
			cond: &Condition{Field: "category", Values: []any{"art", "music"}},
			data: map[string]any{"category": "music"},
			want: true,
		},
		{
			name: "membership miss",
			cond: &Condition{Field: "category", Values: []any{"art", "music"}},
			data: map[string]any{"category": "tech"},
			want: false,
		},
		{
			name: "membership set takes precedence over value",
			cond: &Condition{Field: "category", Value: "tech", Values: []any{"art"}},
			data: map[string]any{"category": "tech"},
			want: false,
		},
		{
			name: "boolean equality",
			cond: &Condition{Field: "has_goal", Value: true},
			data: map[string]any{"has_goal": true},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Holds(tt.data))
		})
	}
}

func TestVisibleFields(t *testing.T) {
	group := FieldGroup{
		Title: "Funding",
		Fields: []FieldDefinition{
			{Name: "goal_amount", Kind: InputNumber},
			{Name: "currency", Kind: InputCurrency},
			{
				Name:        "recurring_interval",
				Kind:        InputSelect,
				VisibleWhen: &Condition{Field: "funding_type", Value: "recurring"},
			},
		},
	}

	t.Run("condition filters fields", func(t *testing.T) {
		fields := VisibleFields(group, map[string]any{"funding_type": "one_time"}, nil)
		names := fieldNames(fields)
		assert.Equal(t, []string{"goal_amount", "currency"}, names)
	})

	t.Run("condition admits fields when it holds", func(t *testing.T) {
		fields := VisibleFields(group, map[string]any{"funding_type": "recurring"}, nil)
		assert.Len(t, fields, 3)
	})

	t.Run("step filter composes with condition", func(t *testing.T) {
		step := map[string]bool{"goal_amount": true, "recurring_interval": true}
		fields := VisibleFields(group, map[string]any{"funding_type": "one_time"}, step)
		// recurring_interval passes the step filter but fails the condition
		assert.Equal(t, []string{"goal_amount"}, fieldNames(fields))
	})
}

func TestVisibleGroups(t *testing.T) {
	groups := []FieldGroup{
		{
			Title:  "Basics",
			Fields: []FieldDefinition{{Name: "title", Kind: InputText}},
		},
		{
			Title:       "Organization details",
			VisibleWhen: &Condition{Field: "creator_type", Value: "organization"},
			Fields:      []FieldDefinition{{Name: "org_name", Kind: InputText}},
		},
		{
			Title:        "Location",
			CustomRender: "address-picker",
		},
	}

	t.Run("gated group dropped when condition fails", func(t *testing.T) {
		resolved := VisibleGroups(groups, map[string]any{"creator_type": "individual"}, nil)
		assert.Len(t, resolved, 2)
		assert.Equal(t, "Basics", resolved[0].Title)
		assert.Equal(t, "Location", resolved[1].Title)
	})

	t.Run("custom render group survives step filtering", func(t *testing.T) {
		step := map[string]bool{"title": true}
		resolved := VisibleGroups(groups, map[string]any{"creator_type": "organization"}, step)
		// org_name is outside the step, so its group empties out and is dropped
		assert.Len(t, resolved, 2)
		assert.Equal(t, "Location", resolved[1].Title)
	})

	t.Run("group emptied by step filter is dropped", func(t *testing.T) {
		step := map[string]bool{"org_name": true}
		resolved := VisibleGroups(groups, map[string]any{"creator_type": "organization"}, step)
		names := make([]string, 0, len(resolved))
		for _, g := range resolved {
			names = append(names, g.Title)
		}
		assert.Equal(t, []string{"Organization details", "Location"}, names)
	})
}

func fieldNames(fields []FieldDefinition) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

package validation

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	athn "github.com/goliatone/go-athn"
	"github.com/goliatone/go-athn/pkg/model"
)

const signupForm = `+++ Form
Sign up
[] name:string \l Name \min 2 \max 20
[] age:int \? \min 0 \max 120
[] mail:email
[] business:bool \?
[] company:string \c business
[] plan:string \d basic \e basic \e pro
[] when:date \? \date \min 2024-01-01 \max 2024-12-31
[] send:submit \dest /signup
`

func loadForm(t *testing.T, text string) model.Form {
	t.Helper()

	doc, err := athn.Parse(text)
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	form, ok := model.FormByIndex(doc, 0)
	if !ok {
		t.Fatalf("form 0 not found")
	}
	return form
}

func issueFields(result SchemaValidationResult) map[string]bool {
	fields := make(map[string]bool, len(result.Issues))
	for _, issue := range result.Issues {
		fields[issue.Field] = true
	}
	return fields
}

func TestSchemaForRequiredFields(t *testing.T) {
	form := loadForm(t, signupForm)

	schema := SchemaFor(form)
	if diff := cmp.Diff([]string{"name", "mail", "plan"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if _, ok := schema.Properties["send"]; ok {
		t.Fatalf("submit field must not be part of the payload")
	}

	name := schema.Properties["name"].Value
	if name.MinLength != 2 || name.MaxLength == nil || *name.MaxLength != 20 {
		t.Fatalf("unexpected name bounds: min=%d max=%v", name.MinLength, name.MaxLength)
	}
	if name.Title != "Name" {
		t.Fatalf("expected label as title, got %q", name.Title)
	}
	plan := schema.Properties["plan"].Value
	if diff := cmp.Diff([]any{"basic", "pro"}, plan.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if got := schema.Properties["mail"].Value.Format; got != FormatEmail {
		t.Fatalf("expected email format, got %q", got)
	}
	if got := schema.Properties["when"].Value.Format; got != "date" {
		t.Fatalf("expected date format, got %q", got)
	}
}

func TestValidateAcceptsSubmission(t *testing.T) {
	form := loadForm(t, signupForm)

	result := Validate(context.Background(), form, map[string]any{
		"name": "Ada",
		"age":  float64(36),
		"mail": "ada@example.com",
		"when": "2024-06-01",
	})
	if !result.Valid {
		t.Fatalf("expected valid submission, got issues %+v", result.Issues)
	}
	if result.Values["plan"] != "basic" {
		t.Fatalf("expected default plan to be filled in, got %v", result.Values["plan"])
	}
}

func TestValidateReportsIssues(t *testing.T) {
	form := loadForm(t, signupForm)

	result := Validate(context.Background(), form, map[string]any{
		"name": "A",
		"age":  float64(200),
		"mail": "not an address",
		"plan": "enterprise",
		"when": "2025-02-01",
	})
	if result.Valid {
		t.Fatalf("expected invalid submission")
	}
	fields := issueFields(result)
	for _, name := range []string{"name", "age", "mail", "plan", "when"} {
		if !fields[name] {
			t.Errorf("expected an issue for %q, got %+v", name, result.Issues)
		}
	}
}

func TestValidateConditionalFields(t *testing.T) {
	form := loadForm(t, signupForm)

	result := Validate(context.Background(), form, map[string]any{
		"name":     "Ada",
		"mail":     "ada@example.com",
		"business": true,
	})
	if result.Valid {
		t.Fatalf("expected missing company to be reported")
	}
	if !issueFields(result)["company"] {
		t.Fatalf("expected company issue, got %+v", result.Issues)
	}

	result = Validate(context.Background(), form, map[string]any{
		"name":    "Ada",
		"mail":    "ada@example.com",
		"company": "ignored",
	})
	if !result.Valid {
		t.Fatalf("expected inactive company to be ignored, got %+v", result.Issues)
	}
	if _, ok := result.Values["company"]; ok {
		t.Fatalf("expected inactive value to be dropped")
	}
}

func TestValidateSanitizesText(t *testing.T) {
	form := loadForm(t, signupForm)

	input := map[string]any{
		"name": "<b>Bob</b> & co",
		"mail": "bob@example.com",
	}
	result := Validate(context.Background(), form, input)
	if !result.Valid {
		t.Fatalf("expected valid submission, got %+v", result.Issues)
	}
	if got := result.Values["name"]; got != "Bob & co" {
		t.Fatalf("expected markup to be stripped, got %q", got)
	}
	if input["name"] != "<b>Bob</b> & co" {
		t.Fatalf("input map must not be modified")
	}
}

func TestValidateListChildren(t *testing.T) {
	form := loadForm(t, "+++ Form\n[] guests:list \\min 1 \\max 2 \\child guest\n[] guest:string \\min 1\n[] go:submit \\dest /rsvp")

	schema := SchemaFor(form)
	if _, ok := schema.Properties["guest"]; ok {
		t.Fatalf("list children must be nested under the list")
	}

	result := Validate(context.Background(), form, map[string]any{
		"guests": []any{map[string]any{"guest": "Ada"}},
	})
	if !result.Valid {
		t.Fatalf("expected valid list, got %+v", result.Issues)
	}

	result = Validate(context.Background(), form, map[string]any{
		"guests": []any{map[string]any{"guest": "A"}, map[string]any{"guest": "B"}, map[string]any{"guest": "C"}},
	})
	if !issueFields(result)["guests"] {
		t.Fatalf("expected too many guests to be reported, got %+v", result.Issues)
	}
}

func TestValidateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Validate(ctx, loadForm(t, signupForm), nil)
	if result.Valid || len(result.Issues) != 1 {
		t.Fatalf("expected a single cancellation issue, got %+v", result)
	}
}

func TestValidateChainedConditionalFields(t *testing.T) {
	forms := map[string]string{
		"declared before target": "+++ Form\n[] a:string \\c b\n[] b:string \\c c\n[] c:bool \\?\n",
		"declared after target":  "+++ Form\n[] c:bool \\?\n[] b:string \\c c\n[] a:string \\c b\n",
	}
	for name, text := range forms {
		t.Run(name, func(t *testing.T) {
			form := loadForm(t, text)

			result := Validate(context.Background(), form, map[string]any{"a": "x", "b": "y", "c": false})
			if !result.Valid {
				t.Fatalf("expected valid submission, got %+v", result.Issues)
			}
			if diff := cmp.Diff(map[string]any{"c": false}, result.Values); diff != "" {
				t.Fatalf("values mismatch (-want +got):\n%s", diff)
			}

			result = Validate(context.Background(), form, map[string]any{"b": "y", "c": true})
			if result.Valid || !issueFields(result)["a"] {
				t.Fatalf("expected a to be required once its chain is active, got %+v", result)
			}
		})
	}
}

package fill

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	athn "github.com/goliatone/go-athn"
	"github.com/goliatone/go-athn/pkg/model"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	textAreas    []string
	infoMessages []string
	inputErr     error
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

const signupForm = `+++ Form
[] name:string \l Name \min 2
[] secret:string \secret \?
[] age:int \min 0 \step 2
[] plan:string \e basic \e pro
[] business:bool
[] company:string \c business
[] note:string \multiline \?
[] mail:email \?
[] send:submit \dest /signup \l Sign up
`

func loadForm(t *testing.T, text string) model.Form {
	t.Helper()

	doc, err := athn.Parse(text)
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	forms := model.Forms(doc)
	if len(forms) == 0 {
		t.Fatalf("no forms found")
	}
	return forms[0]
}

func TestFillCollectsAnswers(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "36", "ada@example.com"},
		passwords: []string{"hunter2"},
		selectIdx: []int{1},
		confirm:   []bool{false},
		textAreas: []string{""},
	}

	values, err := New(WithPromptDriver(driver)).Fill(context.Background(), loadForm(t, signupForm))
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"name":     "Ada",
		"secret":   "hunter2",
		"age":      int64(36),
		"plan":     "pro",
		"business": false,
		"mail":     "ada@example.com",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Sign up"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestFillAsksConditionalFieldWhenActive(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "36", "ACME", ""},
		passwords: []string{""},
		selectIdx: []int{0},
		confirm:   []bool{true},
		textAreas: []string{"hello"},
	}

	values, err := New(WithPromptDriver(driver)).Fill(context.Background(), loadForm(t, signupForm))
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if values["company"] != "ACME" {
		t.Fatalf("expected company to be asked, got %v", values)
	}
	if values["note"] != "hello" {
		t.Fatalf("expected note, got %v", values["note"])
	}
	if _, ok := values["secret"]; ok {
		t.Fatalf("expected empty optional secret to be omitted")
	}
	if _, ok := values["mail"]; ok {
		t.Fatalf("expected empty optional mail to be omitted")
	}
}

func TestFillRejectsInvalidAnswers(t *testing.T) {
	cases := map[string][]string{
		"not a number":  {"Ada", "abc"},
		"step mismatch": {"Ada", "3"},
		"too short":     {"A"},
	}
	for name, inputs := range cases {
		t.Run(name, func(t *testing.T) {
			driver := &stubDriver{inputs: inputs, passwords: []string{""}}
			_, err := New(WithPromptDriver(driver)).Fill(context.Background(), loadForm(t, signupForm))
			if err == nil {
				t.Fatalf("expected error for %v", inputs)
			}
		})
	}
}

func TestFillPropagatesAbort(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	_, err := New(WithPromptDriver(driver)).Fill(context.Background(), loadForm(t, signupForm))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFillListWithChildren(t *testing.T) {
	form := loadForm(t, "+++ Form\n[] guests:list \\l Guests \\min 1 \\max 3 \\child guest\n[] guest:string\n[] when:date \\date\n[] go:submit \\dest /rsvp")

	driver := &stubDriver{inputs: []string{"2", "Ada", "Grace", "2024-06-01"}}
	values, err := New(WithPromptDriver(driver)).Fill(context.Background(), form)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"guests": []any{
			map[string]any{"guest": "Ada"},
			map[string]any{"guest": "Grace"},
		},
		"when": "2024-06-01",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Guests #1", "Guests #2"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestFillWithoutInputs(t *testing.T) {
	form := model.Form{Fields: []model.FormField{model.SubmitField{ID: model.MustID("go"), Destination: "/x"}}}
	if _, err := New(WithPromptDriver(&stubDriver{})).Fill(context.Background(), form); !errors.Is(err, ErrNoInputs) {
		t.Fatalf("expected ErrNoInputs, got %v", err)
	}
}

func TestCountConverterBounds(t *testing.T) {
	maximum := uint32(4)
	minimum := uint32(1)
	convert := countConverter(model.ListField{ID: model.MustID("items"), Min: &minimum, Max: &maximum})

	cases := []struct {
		answer  string
		want    int
		wantErr bool
	}{
		{answer: "3", want: 3},
		{answer: " 4 ", want: 4},
		{answer: "0", wantErr: true},
		{answer: "5", wantErr: true},
		{answer: "-1", wantErr: true},
		{answer: "4294967297", wantErr: true},
		{answer: "4294967296", wantErr: true},
		{answer: "many", wantErr: true},
	}
	for _, tc := range cases {
		got, err := convert(tc.answer)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("countConverter(%q) = %v, expected error", tc.answer, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("countConverter(%q): %v", tc.answer, err)
		}
		if got != tc.want {
			t.Fatalf("countConverter(%q) = %v, want %d", tc.answer, got, tc.want)
		}
	}
}

func TestFillListSkipsInactiveChildren(t *testing.T) {
	form := loadForm(t, "+++ Form\n"+
		"[] guests:list \\child guest \\child plus_one \\child partner\n"+
		"[] guest:string\n"+
		"[] plus_one:bool\n"+
		"[] partner:string \\c plus_one\n"+
		"[] go:submit \\dest /rsvp")

	driver := &stubDriver{
		inputs:  []string{"2", "Ada", "Grace", "Alan"},
		confirm: []bool{false, true},
	}
	values, err := New(WithPromptDriver(driver)).Fill(context.Background(), form)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"guests": []any{
			map[string]any{"guest": "Ada", "plus_one": false},
			map[string]any{"guest": "Grace", "plus_one": true, "partner": "Alan"},
		},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if driver.inputPos != len(driver.inputs) {
		t.Fatalf("expected every scripted input to be used, used %d of %d", driver.inputPos, len(driver.inputs))
	}
}

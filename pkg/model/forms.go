package model

import "github.com/samber/lo"

// Form groups the fields that belong to one `+++ Form` block.
type Form struct {
	Index  int
	Fields []FormField
	// Submit is the first submit field of the block, nil if there is none.
	Submit *SubmitField
}

// Forms collects the form field lines of doc grouped by form index, ordered by
// the first appearance of each block. Blocks without fields are omitted.
func Forms(doc Document) []Form {
	var forms []Form
	positions := make(map[int]int)

	for _, line := range doc.Main {
		fieldLine, ok := line.(FormFieldLine)
		if !ok || fieldLine.Field == nil {
			continue
		}
		pos, seen := positions[fieldLine.Form]
		if !seen {
			pos = len(forms)
			positions[fieldLine.Form] = pos
			forms = append(forms, Form{Index: fieldLine.Form})
		}
		form := &forms[pos]
		form.Fields = append(form.Fields, fieldLine.Field)
		if submit, isSubmit := fieldLine.Field.(SubmitField); isSubmit && form.Submit == nil {
			form.Submit = &submit
		}
	}
	return forms
}

// FormByIndex returns the block with the given form index.
func FormByIndex(doc Document, index int) (Form, bool) {
	return lo.Find(Forms(doc), func(form Form) bool {
		return form.Index == index
	})
}

// Inputs returns every non-submit field in declaration order.
func (f Form) Inputs() []InputField {
	return lo.FilterMap(f.Fields, func(field FormField, _ int) (InputField, bool) {
		input, ok := field.(InputField)
		return input, ok
	})
}

// Field looks a field up by name.
func (f Form) Field(name string) (FormField, bool) {
	return lo.Find(f.Fields, func(field FormField) bool {
		return field.Name().String() == name
	})
}

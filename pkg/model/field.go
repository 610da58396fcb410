package model

import "time"

// FieldKind is the type keyword used in a form field declaration.
type FieldKind string

const (
	FieldSubmit  FieldKind = "submit"
	FieldString  FieldKind = "string"
	FieldInteger FieldKind = "int"
	FieldFloat   FieldKind = "float"
	FieldBoolean FieldKind = "bool"
	FieldFile    FieldKind = "file"
	FieldList    FieldKind = "list"
	FieldDate    FieldKind = "date"
	FieldEmail   FieldKind = "email"
	FieldPhone   FieldKind = "tel"
)

// FieldKinds lists every kind in declaration order.
var FieldKinds = []FieldKind{
	FieldSubmit, FieldString, FieldInteger, FieldFloat, FieldBoolean,
	FieldFile, FieldList, FieldDate, FieldEmail, FieldPhone,
}

// FormField is one of the ten field kinds declared inside a form block.
type FormField interface {
	Name() ID
	Kind() FieldKind
	isFormField()
}

// InputField is implemented by every kind except SubmitField.
type InputField interface {
	FormField
	Common() CommonProperties
}

// ConditionalProperty makes a field depend on the truthiness of another
// field. Inverse flips the condition.
type ConditionalProperty struct {
	Inverse bool
	Target  ID
}

// GlobalProperties holds the properties shared by every non-submit kind.
// Default is typed by the kind's native value.
type GlobalProperties[T any] struct {
	Optional    bool
	Label       *string
	Default     *T
	Conditional *ConditionalProperty
}

// CommonProperties is the untyped view of GlobalProperties.
type CommonProperties struct {
	Optional    bool
	Label       *string
	HasDefault  bool
	Conditional *ConditionalProperty
}

// Common drops the typed default from the properties.
func (g GlobalProperties[T]) Common() CommonProperties {
	return CommonProperties{
		Optional:    g.Optional,
		Label:       g.Label,
		HasDefault:  g.Default != nil,
		Conditional: g.Conditional,
	}
}

// SubmitField sends the enclosing form. It does not carry GlobalProperties.
type SubmitField struct {
	ID ID
	// Destination may be relative; it is resolved by the submission layer.
	Destination string
	Label       *string
	Redirect    bool
}

type StringField struct {
	ID        ID
	Global    GlobalProperties[string]
	Min       *uint32
	Max       *uint32
	Multiline bool
	Secret    bool
	// Variants restricts the value to an enumerated set when non-nil.
	Variants []string
}

type IntegerField struct {
	ID       ID
	Global   GlobalProperties[int64]
	Min      *int64
	Max      *int64
	Step     *int64
	Positive bool
}

type FloatField struct {
	ID       ID
	Global   GlobalProperties[float64]
	Min      *float64
	Max      *float64
	Step     *float64
	Positive bool
}

type BoolField struct {
	ID     ID
	Global GlobalProperties[bool]
}

// FileField never has a default; Global.Default is always nil.
type FileField struct {
	ID     ID
	Global GlobalProperties[struct{}]
	// Max is the size bound in bytes.
	Max *uint64
	// Types lists the accepted MIME types when non-nil.
	Types []string
}

type ListField struct {
	ID       ID
	Global   GlobalProperties[uint32]
	Min      *uint32
	Max      *uint32
	Children []ID
}

type DateField struct {
	ID     ID
	Global GlobalProperties[time.Time]
	Min    *time.Time
	Max    *time.Time
	Date   bool
	Time   bool
}

type EmailField struct {
	ID     ID
	Global GlobalProperties[string]
}

// PhoneField numbers are not format-validated.
type PhoneField struct {
	ID      ID
	Global  GlobalProperties[string]
	Country *string
}

func (f SubmitField) Name() ID  { return f.ID }
func (f StringField) Name() ID  { return f.ID }
func (f IntegerField) Name() ID { return f.ID }
func (f FloatField) Name() ID   { return f.ID }
func (f BoolField) Name() ID    { return f.ID }
func (f FileField) Name() ID    { return f.ID }
func (f ListField) Name() ID    { return f.ID }
func (f DateField) Name() ID    { return f.ID }
func (f EmailField) Name() ID   { return f.ID }
func (f PhoneField) Name() ID   { return f.ID }

func (SubmitField) Kind() FieldKind  { return FieldSubmit }
func (StringField) Kind() FieldKind  { return FieldString }
func (IntegerField) Kind() FieldKind { return FieldInteger }
func (FloatField) Kind() FieldKind   { return FieldFloat }
func (BoolField) Kind() FieldKind    { return FieldBoolean }
func (FileField) Kind() FieldKind    { return FieldFile }
func (ListField) Kind() FieldKind    { return FieldList }
func (DateField) Kind() FieldKind    { return FieldDate }
func (EmailField) Kind() FieldKind   { return FieldEmail }
func (PhoneField) Kind() FieldKind   { return FieldPhone }

func (f StringField) Common() CommonProperties  { return f.Global.Common() }
func (f IntegerField) Common() CommonProperties { return f.Global.Common() }
func (f FloatField) Common() CommonProperties   { return f.Global.Common() }
func (f BoolField) Common() CommonProperties    { return f.Global.Common() }
func (f FileField) Common() CommonProperties    { return f.Global.Common() }
func (f ListField) Common() CommonProperties    { return f.Global.Common() }
func (f DateField) Common() CommonProperties    { return f.Global.Common() }
func (f EmailField) Common() CommonProperties   { return f.Global.Common() }
func (f PhoneField) Common() CommonProperties   { return f.Global.Common() }

func (SubmitField) isFormField()  {}
func (StringField) isFormField()  {}
func (IntegerField) isFormField() {}
func (FloatField) isFormField()   {}
func (BoolField) isFormField()    {}
func (FileField) isFormField()    {}
func (ListField) isFormField()    {}
func (DateField) isFormField()    {}
func (EmailField) isFormField()   {}
func (PhoneField) isFormField()   {}

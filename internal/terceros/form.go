package terceros

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// saveForm mirrors the fields posted by the record form. Only the shape of
// id and fecha_nac is checked here; content rules belong to the store.
type saveForm struct {
	ID             string `form:"id" validate:"omitempty,number"`
	DocumentType   string `form:"tipo_doc"`
	DocumentNumber string `form:"nro_doc"`
	GivenNames     string `form:"nombres"`
	Surnames       string `form:"apellidos"`
	BirthDate      string `form:"fecha_nac" validate:"omitempty,datetime=2006-01-02"`
	Phone          string `form:"tel"`
	Email          string `form:"correo"`
	Address        string `form:"direc"`
	PartyType      string `form:"tipo"`
	Status         string `form:"estado"`
}

// requiredFormKeys must be present in the request body, even when empty.
var requiredFormKeys = []string{
	"tipo_doc", "nro_doc", "nombres", "apellidos", "fecha_nac",
	"tel", "correo", "direc", "tipo", "estado",
}

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("form"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

// decodeSaveForm reads the posted record fields. It fails when a field is
// absent from the body or when id or fecha_nac are malformed.
func decodeSaveForm(r *http.Request, v *validator.Validate) (SaveInput, error) {
	if err := r.ParseForm(); err != nil {
		return SaveInput{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	var missing []string
	for _, key := range requiredFormKeys {
		if _, ok := r.PostForm[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return SaveInput{}, fmt.Errorf("%w: missing field(s) %s", ErrInvalidForm, strings.Join(missing, ", "))
	}

	form := saveForm{
		ID:             strings.TrimSpace(r.PostFormValue("id")),
		DocumentType:   r.PostFormValue("tipo_doc"),
		DocumentNumber: r.PostFormValue("nro_doc"),
		GivenNames:     r.PostFormValue("nombres"),
		Surnames:       r.PostFormValue("apellidos"),
		BirthDate:      strings.TrimSpace(r.PostFormValue("fecha_nac")),
		Phone:          r.PostFormValue("tel"),
		Email:          r.PostFormValue("correo"),
		Address:        r.PostFormValue("direc"),
		PartyType:      r.PostFormValue("tipo"),
		Status:         r.PostFormValue("estado"),
	}
	if err := v.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return SaveInput{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("%s=%q fails %s", fe.Field(), fe.Value(), fe.Tag()))
		}
		return SaveInput{}, fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(problems, "; "))
	}

	return SaveInput(form), nil
}

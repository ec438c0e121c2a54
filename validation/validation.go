// Package validation implementa a camada de schema que todas as rotas usam
// antes de tocar no banco: o corpo é decodificado, cada campo é verificado e
// os valores padrão são aplicados. O retorno é sempre um Result, com o valor
// validado ou a lista de erros por campo.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mission-control/models"
)

// Códigos no mesmo formato que o cliente já conhece.
const (
	CodeInvalidType  = "invalid_type"
	CodeTooSmall     = "too_small"
	CodeInvalidEnum  = "invalid_enum_value"
	CodeInvalidInput = "invalid_input"
	CodeTooBig       = "too_big"
)

// MaxBodyBytes limita o tamanho dos corpos aceitos pelas rotas.
const MaxBodyBytes = 1 << 20

type FieldError struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// TooBigError é o erro de um corpo acima de MaxBodyBytes.
func TooBigError() FieldError {
	return FieldError{Code: CodeTooBig, Path: []string{}, Message: fmt.Sprintf("Request body must not exceed %d bytes", MaxBodyBytes)}
}

// IsTooBig indica que a validação parou pelo tamanho do corpo.
func IsTooBig(errs []FieldError) bool {
	return len(errs) == 1 && errs[0].Code == CodeTooBig
}

func (e FieldError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return strings.Join(e.Path, ".") + ": " + e.Message
}

// Result carrega o valor validado ou os erros encontrados.
type Result[T any] struct {
	Value  T
	Errors []FieldError
}

func (r Result[T]) OK() bool { return len(r.Errors) == 0 }

// object é o corpo JSON decodificado campo a campo.
type object map[string]json.RawMessage

type parser struct {
	obj    object
	errors []FieldError
}

func (p *parser) fail(code, field, msg string) {
	path := []string{}
	if field != "" {
		path = []string{field}
	}
	p.errors = append(p.errors, FieldError{Code: code, Path: path, Message: msg})
}

func decodeObject(r io.Reader) (object, []FieldError) {
	// Um byte além do limite basta para saber que o corpo é grande demais.
	data, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || len(data) > MaxBodyBytes {
		return nil, []FieldError{TooBigError()}
	}
	if err != nil {
		return nil, []FieldError{{Code: CodeInvalidInput, Path: []string{}, Message: "Could not read request body"}}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, []FieldError{{Code: CodeInvalidType, Path: []string{}, Message: "Expected object, received undefined"}}
	}
	if !json.Valid(data) {
		return nil, []FieldError{{Code: CodeInvalidInput, Path: []string{}, Message: "Malformed JSON body"}}
	}
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, []FieldError{{Code: CodeInvalidType, Path: []string{}, Message: "Expected object, received " + jsonKind(data)}}
	}
	return obj, nil
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "undefined"
	}
	switch data[0] {
	case '"':
		return "string"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	case '{':
		return "object"
	}
	return "number"
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// stringField lê um campo string. present indica se a chave estava no corpo;
// null indica que foi enviado explicitamente como null.
func (p *parser) stringField(name string) (value string, present, null bool) {
	raw, ok := p.obj[name]
	if !ok {
		return "", false, false
	}
	if isNull(raw) {
		return "", true, true
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		p.fail(CodeInvalidType, name, "Expected string, received "+jsonKind(bytes.TrimSpace(raw)))
		return "", true, false
	}
	return value, true, false
}

func (p *parser) requiredString(name string) string {
	v, present, null := p.stringField(name)
	if p.hasError(name) {
		return v
	}
	switch {
	case !present:
		p.fail(CodeInvalidType, name, "Required")
	case null:
		p.fail(CodeInvalidType, name, "Expected string, received null")
	case v == "":
		p.fail(CodeTooSmall, name, "String must contain at least 1 character(s)")
	}
	return v
}

func (p *parser) hasError(field string) bool {
	for _, e := range p.errors {
		if len(e.Path) == 1 && e.Path[0] == field {
			return true
		}
	}
	return false
}

func (p *parser) enumField(name string, allowed []string) (string, bool) {
	v, present, null := p.stringField(name)
	if !present || p.hasError(name) {
		return "", false
	}
	if null {
		p.fail(CodeInvalidType, name, "Expected string, received null")
		return "", false
	}
	for _, a := range allowed {
		if v == a {
			return v, true
		}
	}
	p.fail(CodeInvalidEnum, name, fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", quoteJoin(allowed), v))
	return "", false
}

func quoteJoin(vals []string) string {
	q := make([]string, len(vals))
	for i, v := range vals {
		q[i] = "'" + v + "'"
	}
	return strings.Join(q, " | ")
}

// nullableString aceita string ou null. String vazia é tratada como null.
func (p *parser) nullableString(name string) models.NullableString {
	v, present, null := p.stringField(name)
	if !present || p.hasError(name) {
		return models.NullableString{}
	}
	if null || v == "" {
		return models.NullableString{Set: true}
	}
	return models.NullableString{Set: true, Value: &v}
}

func statusNames() []string {
	out := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		out[i] = string(s)
	}
	return out
}

func priorityNames() []string {
	out := make([]string, len(models.Priorities))
	for i, p := range models.Priorities {
		out[i] = string(p)
	}
	return out
}

func levelNames() []string {
	out := make([]string, len(models.LogLevels))
	for i, l := range models.LogLevels {
		out[i] = string(l)
	}
	return out
}

package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// ErrInvalidPayload はボディの JSON が壊れている / 型が合わないとき
var ErrInvalidPayload = errors.New("invalid payload")

// save の型バインドだけを見る。文字数などの制約は付けない。
const saveTodoSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"id":        {"type": ["string", "null"]},
		"todoName":  {"type": ["string", "null"]},
		"completed": {"type": ["boolean", "null"]}
	}
}`

var saveTodoValidator = jsonschema.MustCompileString("save_todo.json", saveTodoSchema)

// decodeValidated はボディを読み、schema で検証してから v に decode する
func decodeValidated(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, v any) error {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("%w: payload too large", ErrInvalidPayload)
		}
		return fmt.Errorf("%w: failed to read body", ErrInvalidPayload)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: request body is required", ErrInvalidPayload)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrInvalidPayload, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: invalid JSON: multiple JSON values", ErrInvalidPayload)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrInvalidPayload, validationMessage(ve))
		}
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// validationMessage は一番深い原因だけを 1 行で返す
func validationMessage(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

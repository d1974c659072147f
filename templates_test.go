package mailat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"testing"
)

func TestExtractTemplateVariables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "simple variables",
			content: "Hello {{name}}, your order {{orderId}} shipped.",
			want:    []string{"name", "orderId"},
		},
		{
			name:    "duplicates collapse",
			content: "{{name}} {{name}} {{name}}",
			want:    []string{"name"},
		},
		{
			name:    "whitespace trimmed",
			content: "{{ name }} and {{  city  }}",
			want:    []string{"city", "name"},
		},
		{
			name:    "block markers stripped",
			content: "{{#if premium}}{{discount}}{{/if}}",
			want:    []string{"discount", "if"},
		},
		{
			name:    "inverted section",
			content: "{{^items}}empty{{/items}}",
			want:    []string{"items"},
		},
		{
			name:    "comments skipped",
			content: "{{! this is a comment }}{{name}}",
			want:    []string{"name"},
		},
		{
			name:    "no variables",
			content: "plain text",
			want:    nil,
		},
		{
			name:    "sorted output",
			content: "{{zebra}} {{apple}} {{mango}}",
			want:    []string{"apple", "mango", "zebra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTemplateVariables(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTemplateVariables() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplates_Create(t *testing.T) {
	var sent map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/templates" {
			t.Errorf("request = %s %s, want POST /templates", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &sent)
		w.Write([]byte(`{"data": {"id": "tpl_1", "name": "welcome", "subject": "Hi {{name}}",
			"htmlBody": "<p>Hello {{name}}</p>", "variables": ["name"], "isActive": true}}`))
	})

	tmpl, err := client.Templates.Create(context.Background(), &CreateTemplateParams{
		Name:    "welcome",
		Subject: "Hi {{name}}",
		HTML:    "<p>Hello {{name}}</p>",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sent["htmlBody"] != "<p>Hello {{name}}</p>" {
		t.Errorf("htmlBody = %v", sent["htmlBody"])
	}
	if tmpl.ID != "tpl_1" || !tmpl.IsActive {
		t.Errorf("tmpl = %+v", tmpl)
	}
}

func TestTemplates_Disable(t *testing.T) {
	var sent map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &sent)
		w.Write([]byte(`{"data": {"id": "tpl_1", "isActive": false}}`))
	})

	tmpl, err := client.Templates.Disable(context.Background(), "tpl_1")
	if err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if len(sent) != 1 || sent["isActive"] != false {
		t.Errorf("body = %v, want only isActive=false", sent)
	}
	if tmpl.IsActive {
		t.Error("IsActive = true, want false")
	}
}

func TestTemplates_Preview(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/templates/tpl_1/preview" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"data": {"subject": "Hi Ada", "htmlBody": "<p>Hello Ada</p>"}}`))
	})

	preview, err := client.Templates.Preview(context.Background(), "tpl_1", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.Subject != "Hi Ada" {
		t.Errorf("Subject = %s", preview.Subject)
	}
}

func TestTemplates_Validate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/templates/validate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"data": {"valid": false, "errors": ["unclosed block at line 3"]}}`))
	})

	result, err := client.Templates.Validate(context.Background(), "s", "{{#if x}}", "")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Valid || len(result.Errors) != 1 {
		t.Errorf("result = %+v", result)
	}
}

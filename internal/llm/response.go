package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

var errNotJSON = errors.New("model reply is not a JSON object")

// Response is the parsed model reply.
type Response struct {
	Status          string `validate:"omitempty,oneof=OK INCOMPLETE REJECTED NEEDS_EVIDENCE"`
	Reason          string
	MissingPoints   []string
	CustomerRequest string
}

var responseValidator = validator.New(validator.WithRequiredStructEnabled())

// ParseResponse reads a model reply. A surrounding markdown code fence is
// removed first. Missing fields are left empty.
func ParseResponse(content string) (Response, error) {
	content = stripCodeFence(strings.TrimSpace(content))
	if !gjson.Valid(content) {
		return Response{}, errNotJSON
	}
	doc := gjson.Parse(content)
	if !doc.IsObject() {
		return Response{}, errNotJSON
	}
	resp := Response{
		Status:          doc.Get("status").String(),
		Reason:          doc.Get("reason").String(),
		CustomerRequest: doc.Get("customer_request").String(),
		MissingPoints:   []string{},
	}
	for _, point := range doc.Get("missing_points").Array() {
		resp.MissingPoints = append(resp.MissingPoints, point.String())
	}
	if err := responseValidator.Struct(resp); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Response{}, fmt.Errorf("model reply field %s: failed %s check", strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return Response{}, err
	}
	return resp, nil
}

// stripCodeFence unwraps ```json ... ``` and bare ``` ... ``` replies.
func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") || !strings.HasSuffix(content, "```") || len(content) < 6 {
		return content
	}
	body := strings.TrimSuffix(content[3:], "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}

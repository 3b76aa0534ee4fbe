package annotator

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"study-notes/internal/domain/entity"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "studynotes.annotator.v1.Annotator"

	annotateMethod = "/" + ServiceName + "/Annotate"
)

func textRequest(text string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"text": text})
}

func requestText(req *structpb.Struct) string {
	return req.GetFields()["text"].GetStringValue()
}

// documentToStruct converts through the JSON form of entity.Document so the
// wire field names match its json tags.
func documentToStruct(doc *entity.Document) (*structpb.Struct, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return structpb.NewStruct(m)
}

func structToDocument(s *structpb.Struct) (*entity.Document, error) {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	var doc entity.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

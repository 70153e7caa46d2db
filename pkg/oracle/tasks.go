package oracle

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
)

const splitSystemPrompt = `Eres un asistente que separa pedidos escritos en español en artículos individuales.
Responde ÚNICAMENTE con un arreglo JSON de cadenas, una por artículo, en el orden original.
Ejemplo: entrada "5 cajas de cerveza y 3 gaseosas" -> ["5 cajas de cerveza","3 gaseosas"]`

const extractSystemPrompt = `Eres un asistente que extrae los datos de un artículo de pedido escrito en español.
Responde ÚNICAMENTE con un objeto JSON con las claves:
  "producto": el nombre del producto (cadena),
  "cantidad": la cantidad pedida (entero, o null si no se menciona),
  "unidad": la unidad pedida como "caja" o "botella" (cadena, o null si no se menciona).
Ejemplo: entrada "5 cajas de cerveza" -> {"producto":"cerveza","cantidad":5,"unidad":"caja"}`

// Entities is the structured reading of one order segment.
type Entities struct {
	Product string
	Qty     *int
	Unit    string
}

// SplitItems asks the model to break a free-text order into one string per
// requested item.
func (c *Client) SplitItems(ctx context.Context, text string) ([]string, error) {
	content, err := c.complete(ctx, splitSystemPrompt, text)
	if err != nil {
		return nil, err
	}

	var items []string
	if err := unmarshalLenient(content, &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse split response")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "split returned no items")
	}
	return out, nil
}

// ExtractEntities asks the model to read product, quantity, and unit out of
// one order segment.
func (c *Client) ExtractEntities(ctx context.Context, segment string) (Entities, error) {
	content, err := c.complete(ctx, extractSystemPrompt, segment)
	if err != nil {
		return Entities{}, err
	}

	var wire struct {
		Product string `json:"producto"`
		Qty     *int   `json:"cantidad"`
		Unit    string `json:"unidad"`
	}
	if err := unmarshalLenient(content, &wire); err != nil {
		return Entities{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse extract response")
	}

	return Entities{
		Product: strings.TrimSpace(wire.Product),
		Qty:     wire.Qty,
		Unit:    strings.TrimSpace(wire.Unit),
	}, nil
}

// unmarshalLenient parses model output as JSON, repairing common defects
// (code fences, trailing commas, single quotes) before giving up.
func unmarshalLenient(content string, v any) error {
	cleaned := stripCodeFence(content)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(repaired), v)
}

func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

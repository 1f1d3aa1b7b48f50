package extractor

import (
	"encoding/json"

	"recivo/internal/domain"
)

// catalogRef is the trimmed catalog entry embedded in the prompt.
type catalogRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku,omitempty"`
}

// BuildInvoicePrompt returns the extraction prompt for one invoice page,
// embedding the reference catalog so the model can match line items against
// known products.
func BuildInvoicePrompt(catalog []domain.CatalogItem) string {
	refs := make([]catalogRef, 0, len(catalog))
	for _, item := range catalog {
		refs = append(refs, catalogRef{ID: item.ID.String(), Name: item.Name, SKU: item.SKU})
	}
	catalogJSON, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		catalogJSON = []byte("[]")
	}

	return `You are analyzing one page of a delivery invoice or receipt.
Extract ALL line items visible on this page.

Here is the user's reference catalog for matching:
` + string(catalogJSON) + `

For each invoice line item, extract:
- name: Item name as shown on the invoice
- quantity: Quantity ordered
- unit_price: Price per unit (optional)
- total: Total price for this line (optional)
- matched_catalog_id: If the item matches a catalog entry by name or SKU similarity, include that entry's id

Return ONLY a valid JSON object with this structure:
{
  "vendor_name": "Vendor Name",
  "invoice_number": "INV-12345",
  "invoice_date": "2025-11-15",
  "items": [
    {
      "name": "Item Name",
      "quantity": 5,
      "unit_price": 10.00,
      "total": 50.00,
      "matched_catalog_id": "abc123"
    }
  ]
}

Important:
- Extract EVERY line item on the page. Do not skip, summarize, or omit any.
- Extract vendor name, invoice number, and date if visible on this page; omit them otherwise.
- If unsure about an optional field, omit it.
- Return ONLY the JSON object, no markdown formatting, no code fences, no explanation.`
}

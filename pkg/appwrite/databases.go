package appwrite

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// Document is the raw database document: system fields are $-prefixed,
// everything else is the user payload.
type Document struct {
	ID           string    `json:"$id"`
	CollectionID string    `json:"$collectionId"`
	CreatedAt    time.Time `json:"$createdAt"`
	UpdatedAt    time.Time `json:"$updatedAt"`

	Data map[string]any `json:"-"`
}

func (d *Document) UnmarshalJSON(b []byte) error {
	type alias Document
	if err := json.Unmarshal(b, (*alias)(d)); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d.Data = make(map[string]any, len(raw))
	for k, v := range raw {
		if len(k) > 0 && k[0] == '$' {
			continue
		}
		d.Data[k] = v
	}
	return nil
}

type DocumentList struct {
	Total     int64      `json:"total"`
	Documents []Document `json:"documents"`
}

// https://appwrite.io/docs/references/cloud/client-rest/databases
type queryJSON struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

func encodeQuery(method, attribute string, values ...any) string {
	b, _ := json.Marshal(queryJSON{Method: method, Attribute: attribute, Values: values})
	return string(b)
}

func QueryEqual(attribute string, value any) string {
	return encodeQuery("equal", attribute, value)
}

func QuerySearch(attribute string, term string) string {
	return encodeQuery("search", attribute, term)
}

func QueryOrderDesc(attribute string) string {
	return encodeQuery("orderDesc", attribute)
}

func QueryLimit(n int) string {
	return encodeQuery("limit", "", n)
}

func QueryCursorAfter(id string) string {
	return encodeQuery("cursorAfter", "", id)
}

func (c *Client) documentsURL(databaseID, collectionID string) string {
	return c.endpoint + "/databases/" + databaseID + "/collections/" + collectionID + "/documents"
}

func (c *Client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*Document, error) {
	return unwrap[Document](c.r(ctx).
		SetBody(map[string]any{
			"documentId": documentID,
			"data":       data,
		}).
		SetResult(&Document{}).
		Post(c.documentsURL(databaseID, collectionID)))
}

func (c *Client) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error) {
	return unwrap[Document](c.r(ctx).
		SetResult(&Document{}).
		Get(c.documentsURL(databaseID, collectionID) + "/" + documentID))
}

func (c *Client) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*Document, error) {
	return unwrap[Document](c.r(ctx).
		SetBody(map[string]any{"data": data}).
		SetResult(&Document{}).
		Patch(c.documentsURL(databaseID, collectionID) + "/" + documentID))
}

func (c *Client) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	res, err := c.r(ctx).Delete(c.documentsURL(databaseID, collectionID) + "/" + documentID)
	_, err = unwrap[any](res, err)
	return err
}

func (c *Client) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...string) (*DocumentList, error) {
	return unwrap[DocumentList](c.r(ctx).
		SetQueryParamsFromValues(url.Values{
			"queries[]": queries,
		}).
		SetResult(&DocumentList{}).
		Get(c.documentsURL(databaseID, collectionID)))
}

package appwrite

import (
	"context"
	"io"
)

type File struct {
	ID   string `json:"$id"`
	Name string `json:"name"`
}

func (c *Client) filesURL(bucketID string) string {
	return c.endpoint + "/storage/buckets/" + bucketID + "/files"
}

func (c *Client) CreateFile(ctx context.Context, bucketID, fileID, filename string, r io.Reader) (*File, error) {
	return unwrap[File](c.r(ctx).
		SetFormData(map[string]string{"fileId": fileID}).
		SetFileReader("file", filename, r).
		SetResult(&File{}).
		Post(c.filesURL(bucketID)))
}

// GetFileView returns the direct rendering URL for a stored file.
func (c *Client) GetFileView(bucketID, fileID string) string {
	return c.filesURL(bucketID) + "/" + fileID + "/view?project=" + c.project
}

func (c *Client) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	res, err := c.r(ctx).Delete(c.filesURL(bucketID) + "/" + fileID)
	_, err = unwrap[any](res, err)
	return err
}

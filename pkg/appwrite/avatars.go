package appwrite

import "net/url"

// GetInitialsURL returns the generated initials avatar for a display name.
func (c *Client) GetInitialsURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("project", c.project)
	return c.endpoint + "/avatars/initials?" + q.Encode()
}

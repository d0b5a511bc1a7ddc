package dto

// DeleteResponse 删除类操作的回执
type DeleteResponse struct {
	ID string `json:"id"`
}

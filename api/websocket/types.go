package websocket

// query parameters accepted on the upgrade request. when both are set the
// connection joins the room as soon as it is registered.
type ConnectParams struct {
	RoomID   string `form:"room_id" binding:"omitempty,max=128"`
	Username string `form:"username" binding:"omitempty,max=64"`
}

package cache

// Invalidation request payloads handled by the REST layer.

type InvalidatePatternRequest struct {
	Pattern string `json:"pattern"`
}

type InvalidateWorkspaceRequest struct {
	WorkspaceID int `json:"workspace_id"`
}

type InvalidateGatewayRequest struct {
	WorkspaceID int  `json:"workspace_id"`
	GatewayID   *int `json:"gateway_id,omitempty"`
}

type ClearGroupRequest struct {
	Group       string `json:"group"`
	WorkspaceID *int   `json:"workspace_id,omitempty"`
}

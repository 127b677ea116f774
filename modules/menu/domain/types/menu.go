package types

type Menu struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	ParentID *int   `json:"parent_id"`
	Path     string `json:"path"`
	Icon     string `json:"icon"`
}

func (m Menu) NodeID() int        { return m.ID }
func (m Menu) ParentNodeID() *int { return m.ParentID }

type MenuInput struct {
	Name     string `json:"name"`
	Order    int    `json:"order"`
	ParentID *int   `json:"parent_id"`
	Path     string `json:"path"`
	Icon     string `json:"icon"`
}

type MenuTreeNode struct {
	Menu
	Children []*MenuTreeNode `json:"children"`
}

package handler

import (
	"go-pos-ws/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler exposes the role and privilege catalogs for the admin UI.
// Read-only: the sets are seeded at startup from the policy table.
type RoleHandler struct {
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
}

func NewRoleHandler(roleRepo repository.RoleRepository, privilegeRepo repository.PrivilegeRepository) *RoleHandler {
	return &RoleHandler{
		roleRepo:      roleRepo,
		privilegeRepo: privilegeRepo,
	}
}

func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roleRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(roles)
}

func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.privilegeRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(privileges)
}

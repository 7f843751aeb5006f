package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pulse-agent-service/internal/agent"
)

// funcTool adapts a plain function plus schema into an agent.Tool.
type funcTool struct {
	name        string
	description string
	parameters  map[string]interface{}
	fn          func(ctx context.Context, args map[string]interface{}) (string, error)
}

func (t *funcTool) Name() string                       { return t.name }
func (t *funcTool) Description() string                { return t.description }
func (t *funcTool) Parameters() map[string]interface{} { return t.parameters }
func (t *funcTool) Call(ctx context.Context, args map[string]interface{}) (string, error) {
	return t.fn(ctx, args)
}

// objectSchema builds a JSON schema for an object with string properties.
func objectSchema(props map[string]string, required ...string) map[string]interface{} {
	properties := map[string]interface{}{}
	for name, desc := range props {
		properties[name] = map[string]interface{}{
			"type":        "string",
			"description": desc,
		}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// ensureDate normalizes a DateTime string to the YYYY-MM-DD shape expected by
// Date scalar fields.
func ensureDate(s string) string {
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "T"); i > 0 {
		return s[:i]
	}
	return s
}

// Toolset exposes the Performance Management CRUD surface as agent tools.
// Every tool authenticates with the credential carried in the call context.
type Toolset struct {
	client *Client
}

func NewToolset(client *Client) *Toolset {
	return &Toolset{client: client}
}

func (ts *Toolset) execute(ctx context.Context, query string, variables map[string]interface{}) (string, error) {
	data, err := ts.client.Execute(ctx, query, variables, "")
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(raw), nil
}

// Tools returns the full toolset handed to the agent.
func (ts *Toolset) Tools() []agent.Tool {
	return []agent.Tool{
		// User tools
		&funcTool{
			name:        "get_user",
			description: "Get a user by ID, including department, manager, team and goals.",
			parameters:  objectSchema(map[string]string{"user_id": "The ID of the user"}, "user_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetUser, map[string]interface{}{"id": stringArg(args, "user_id")})
			},
		},
		&funcTool{
			name:        "get_user_by_email",
			description: "Get a user by email address.",
			parameters:  objectSchema(map[string]string{"email": "The email address of the user"}, "email"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetUserByEmail, map[string]interface{}{"email": stringArg(args, "email")})
			},
		},
		&funcTool{
			name:        "list_users",
			description: "List all users in the organization.",
			parameters:  objectSchema(nil),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetUsers, nil)
			},
		},
		&funcTool{
			name:        "get_team_members",
			description: "Get the team members reporting to a manager.",
			parameters:  objectSchema(map[string]string{"manager_id": "The ID of the manager"}, "manager_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetTeamMembers, map[string]interface{}{"managerId": stringArg(args, "manager_id")})
			},
		},
		&funcTool{
			name:        "create_user",
			description: "Create a new user.",
			parameters: objectSchema(map[string]string{
				"first_name":    "First name of the user",
				"last_name":     "Last name of the user",
				"email":         "Email address (unique identifier)",
				"title":         "Optional job title",
				"manager_id":    "Optional manager ID",
				"department_id": "Optional department ID",
			}, "first_name", "last_name", "email"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				input := map[string]interface{}{
					"firstName": stringArg(args, "first_name"),
					"lastName":  stringArg(args, "last_name"),
					"email":     stringArg(args, "email"),
				}
				for argKey, inputKey := range map[string]string{
					"title": "title", "manager_id": "managerId", "department_id": "departmentId",
				} {
					if v := stringArg(args, argKey); v != "" {
						input[inputKey] = v
					}
				}
				return ts.execute(ctx, CreateUser, map[string]interface{}{"input": input})
			},
		},
		&funcTool{
			name:        "update_user",
			description: "Update an existing user's details.",
			parameters: objectSchema(map[string]string{
				"user_id":       "ID of the user to update",
				"first_name":    "New first name",
				"last_name":     "New last name",
				"email":         "New email",
				"title":         "New title",
				"manager_id":    "New manager ID",
				"department_id": "New department ID",
			}, "user_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				input := map[string]interface{}{}
				for argKey, inputKey := range map[string]string{
					"first_name": "firstName", "last_name": "lastName", "email": "email",
					"title": "title", "manager_id": "managerId", "department_id": "departmentId",
				} {
					if v := stringArg(args, argKey); v != "" {
						input[inputKey] = v
					}
				}
				return ts.execute(ctx, UpdateUser, map[string]interface{}{
					"id":    stringArg(args, "user_id"),
					"input": input,
				})
			},
		},
		&funcTool{
			name:        "delete_user",
			description: "Delete a user.",
			parameters:  objectSchema(map[string]string{"user_id": "ID of the user to delete"}, "user_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, DeleteUser, map[string]interface{}{"id": stringArg(args, "user_id")})
			},
		},
		&funcTool{
			name:        "set_user_manager",
			description: "Set or unset a user's manager. Omit manager_id to unset.",
			parameters: objectSchema(map[string]string{
				"user_id":    "ID of the user",
				"manager_id": "ID of the manager, omit to unset",
			}, "user_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				variables := map[string]interface{}{"userId": stringArg(args, "user_id")}
				if v := stringArg(args, "manager_id"); v != "" {
					variables["managerId"] = v
				}
				return ts.execute(ctx, SetUserManager, variables)
			},
		},

		// Goal tools
		&funcTool{
			name:        "get_goal",
			description: "Get a goal by ID with its KPIs, notes and assignments.",
			parameters:  objectSchema(map[string]string{"goal_id": "The ID of the goal"}, "goal_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetGoal, map[string]interface{}{"id": stringArg(args, "goal_id")})
			},
		},
		&funcTool{
			name:        "list_goals",
			description: "List all goals visible to the current user.",
			parameters:  objectSchema(nil),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetGoals, nil)
			},
		},
		&funcTool{
			name:        "get_goals_by_owner",
			description: "Get goals owned by a user, by owner email.",
			parameters:  objectSchema(map[string]string{"owner_email": "Email of the goal owner"}, "owner_email"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetGoalsByOwner, map[string]interface{}{"email": stringArg(args, "owner_email")})
			},
		},
		&funcTool{
			name:        "create_goal",
			description: "Create a new goal for an owner.",
			parameters: objectSchema(map[string]string{
				"short_description":      "Short description of the goal",
				"long_description":       "Detailed description of the goal",
				"owner_email":            "Email of the goal owner",
				"target_completion_date": "Optional target completion date (YYYY-MM-DD)",
				"parent_goal_id":         "Optional parent goal ID",
			}, "short_description", "long_description", "owner_email"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				input := map[string]interface{}{
					"shortDescription": stringArg(args, "short_description"),
					"longDescription":  stringArg(args, "long_description"),
					"ownerEmail":       stringArg(args, "owner_email"),
				}
				if v := ensureDate(stringArg(args, "target_completion_date")); v != "" {
					input["targetCompletionDate"] = v
				}
				if v := stringArg(args, "parent_goal_id"); v != "" {
					input["parentGoalId"] = v
				}
				return ts.execute(ctx, CreateGoal, map[string]interface{}{"input": input})
			},
		},
		&funcTool{
			name:        "update_goal",
			description: "Update an existing goal's descriptions, status or dates.",
			parameters: objectSchema(map[string]string{
				"goal_id":                "ID of the goal to update",
				"short_description":      "New short description",
				"long_description":       "New long description",
				"status":                 "New status",
				"target_completion_date": "New target completion date (YYYY-MM-DD)",
			}, "goal_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				input := map[string]interface{}{}
				for argKey, inputKey := range map[string]string{
					"short_description": "shortDescription",
					"long_description":  "longDescription",
					"status":            "status",
				} {
					if v := stringArg(args, argKey); v != "" {
						input[inputKey] = v
					}
				}
				if v := ensureDate(stringArg(args, "target_completion_date")); v != "" {
					input["targetCompletionDate"] = v
				}
				return ts.execute(ctx, UpdateGoal, map[string]interface{}{
					"id":    stringArg(args, "goal_id"),
					"input": input,
				})
			},
		},
		&funcTool{
			name:        "assign_goal_to_user",
			description: "Assign a goal to a user by email.",
			parameters: objectSchema(map[string]string{
				"goal_id":    "ID of the goal",
				"user_email": "Email of the user to assign",
			}, "goal_id", "user_email"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, AssignGoalToUser, map[string]interface{}{
					"goalId":    stringArg(args, "goal_id"),
					"userEmail": stringArg(args, "user_email"),
				})
			},
		},
		&funcTool{
			name:        "unassign_goal_from_user",
			description: "Remove a goal assignment from a user by email.",
			parameters: objectSchema(map[string]string{
				"goal_id":    "ID of the goal",
				"user_email": "Email of the user to unassign",
			}, "goal_id", "user_email"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, UnassignGoalFromUser, map[string]interface{}{
					"goalId":    stringArg(args, "goal_id"),
					"userEmail": stringArg(args, "user_email"),
				})
			},
		},
		&funcTool{
			name:        "lock_goal",
			description: "Lock a goal against edits.",
			parameters:  objectSchema(map[string]string{"goal_id": "ID of the goal"}, "goal_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, LockGoal, map[string]interface{}{"id": stringArg(args, "goal_id")})
			},
		},
		&funcTool{
			name:        "unlock_goal",
			description: "Unlock a previously locked goal.",
			parameters:  objectSchema(map[string]string{"goal_id": "ID of the goal"}, "goal_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, UnlockGoal, map[string]interface{}{"id": stringArg(args, "goal_id")})
			},
		},
		&funcTool{
			name:        "update_target_completion_date",
			description: "Update the target completion date of a goal.",
			parameters: objectSchema(map[string]string{
				"goal_id":                "ID of the goal",
				"target_completion_date": "New target completion date (YYYY-MM-DD)",
			}, "goal_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, UpdateTargetCompletionDate, map[string]interface{}{
					"goalId":               stringArg(args, "goal_id"),
					"targetCompletionDate": ensureDate(stringArg(args, "target_completion_date")),
				})
			},
		},
		&funcTool{
			name:        "approve_goal",
			description: "Approve a goal pending review.",
			parameters:  objectSchema(map[string]string{"goal_id": "ID of the goal"}, "goal_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, ApproveGoal, map[string]interface{}{"goalId": stringArg(args, "goal_id")})
			},
		},
		&funcTool{
			name:        "delete_goal",
			description: "Delete a goal.",
			parameters:  objectSchema(map[string]string{"goal_id": "ID of the goal to delete"}, "goal_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, DeleteGoal, map[string]interface{}{"id": stringArg(args, "goal_id")})
			},
		},

		// KPI tools
		&funcTool{
			name:        "create_kpi",
			description: "Create a KPI under a goal.",
			parameters: objectSchema(map[string]string{
				"goal_id":     "ID of the parent goal",
				"description": "Description of the KPI",
				"due_date":    "Due date (YYYY-MM-DD)",
				"status":      "Optional initial status",
			}, "goal_id", "description", "due_date"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				input := map[string]interface{}{
					"description": stringArg(args, "description"),
					"dueDate":     ensureDate(stringArg(args, "due_date")),
				}
				if v := stringArg(args, "status"); v != "" {
					input["status"] = v
				}
				return ts.execute(ctx, CreateKPI, map[string]interface{}{
					"goalId": stringArg(args, "goal_id"),
					"input":  input,
				})
			},
		},
		&funcTool{
			name:        "update_kpi",
			description: "Update a KPI's description, status or due date.",
			parameters: objectSchema(map[string]string{
				"kpi_id":      "ID of the KPI to update",
				"description": "New description",
				"status":      "New status",
				"due_date":    "New due date (YYYY-MM-DD)",
			}, "kpi_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				input := map[string]interface{}{}
				if v := stringArg(args, "description"); v != "" {
					input["description"] = v
				}
				if v := stringArg(args, "status"); v != "" {
					input["status"] = v
				}
				if v := ensureDate(stringArg(args, "due_date")); v != "" {
					input["dueDate"] = v
				}
				return ts.execute(ctx, UpdateKPI, map[string]interface{}{
					"id":    stringArg(args, "kpi_id"),
					"input": input,
				})
			},
		},
		&funcTool{
			name:        "delete_kpi",
			description: "Delete a KPI.",
			parameters:  objectSchema(map[string]string{"kpi_id": "ID of the KPI to delete"}, "kpi_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, DeleteKPI, map[string]interface{}{"id": stringArg(args, "kpi_id")})
			},
		},

		// Department tools
		&funcTool{
			name:        "get_department",
			description: "Get a department by ID with its members and hierarchy.",
			parameters:  objectSchema(map[string]string{"department_id": "The ID of the department"}, "department_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetDepartment, map[string]interface{}{"id": stringArg(args, "department_id")})
			},
		},
		&funcTool{
			name:        "list_departments",
			description: "List all departments.",
			parameters:  objectSchema(nil),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetDepartments, nil)
			},
		},
		&funcTool{
			name:        "create_department",
			description: "Create a new department.",
			parameters: objectSchema(map[string]string{
				"name":                 "Name of the department",
				"small_description":    "Short description of the department",
				"manager_email":        "Optional manager email",
				"parent_department_id": "Optional parent department ID",
			}, "name", "small_description"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				input := map[string]interface{}{
					"name":             stringArg(args, "name"),
					"smallDescription": stringArg(args, "small_description"),
				}
				if v := stringArg(args, "manager_email"); v != "" {
					input["managerEmail"] = v
				}
				if v := stringArg(args, "parent_department_id"); v != "" {
					input["parentDepartmentId"] = v
				}
				return ts.execute(ctx, CreateDepartment, map[string]interface{}{"input": input})
			},
		},
		&funcTool{
			name:        "update_department",
			description: "Update a department's name or description.",
			parameters: objectSchema(map[string]string{
				"department_id":     "ID of the department to update",
				"name":              "New name",
				"small_description": "New short description",
			}, "department_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				input := map[string]interface{}{}
				if v := stringArg(args, "name"); v != "" {
					input["name"] = v
				}
				if v := stringArg(args, "small_description"); v != "" {
					input["smallDescription"] = v
				}
				return ts.execute(ctx, UpdateDepartment, map[string]interface{}{
					"id":    stringArg(args, "department_id"),
					"input": input,
				})
			},
		},
		&funcTool{
			name:        "assign_user_to_department",
			description: "Assign a user to a department by email.",
			parameters: objectSchema(map[string]string{
				"department_id": "ID of the department",
				"user_email":    "Email of the user to assign",
			}, "department_id", "user_email"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, AssignUserToDepartment, map[string]interface{}{
					"departmentId": stringArg(args, "department_id"),
					"userEmail":    stringArg(args, "user_email"),
				})
			},
		},
		&funcTool{
			name:        "set_department_manager",
			description: "Set the manager of a department by email.",
			parameters: objectSchema(map[string]string{
				"department_id": "ID of the department",
				"user_email":    "Email of the new manager",
			}, "department_id", "user_email"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, SetDepartmentManager, map[string]interface{}{
					"departmentId": stringArg(args, "department_id"),
					"userEmail":    stringArg(args, "user_email"),
				})
			},
		},
		&funcTool{
			name:        "delete_department",
			description: "Delete a department.",
			parameters:  objectSchema(map[string]string{"department_id": "ID of the department to delete"}, "department_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, DeleteDepartment, map[string]interface{}{"id": stringArg(args, "department_id")})
			},
		},

		// Tenant tools
		&funcTool{
			name:        "list_tenants",
			description: "List all tenants.",
			parameters:  objectSchema(nil),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetTenants, nil)
			},
		},

		// Goal note tools
		&funcTool{
			name:        "get_goal_notes",
			description: "Get the notes attached to a goal.",
			parameters:  objectSchema(map[string]string{"goal_id": "ID of the goal"}, "goal_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, GetGoalNotes, map[string]interface{}{"goalId": stringArg(args, "goal_id")})
			},
		},
		&funcTool{
			name:        "create_goal_note",
			description: "Attach a note to a goal.",
			parameters: objectSchema(map[string]string{
				"goal_id": "ID of the goal",
				"content": "Content of the note",
			}, "goal_id", "content"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, CreateGoalNote, map[string]interface{}{
					"goalId":  stringArg(args, "goal_id"),
					"content": stringArg(args, "content"),
				})
			},
		},
		&funcTool{
			name:        "update_goal_note",
			description: "Update the content of a goal note.",
			parameters: objectSchema(map[string]string{
				"note_id": "ID of the note to update",
				"content": "New content",
			}, "note_id", "content"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, UpdateGoalNote, map[string]interface{}{
					"id":      stringArg(args, "note_id"),
					"content": stringArg(args, "content"),
				})
			},
		},
		&funcTool{
			name:        "delete_goal_note",
			description: "Delete a goal note.",
			parameters:  objectSchema(map[string]string{"note_id": "ID of the note to delete"}, "note_id"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, DeleteGoalNote, map[string]interface{}{"id": stringArg(args, "note_id")})
			},
		},

		// Bulk operations
		&funcTool{
			name:        "bulk_upload_users",
			description: "Bulk create or update users and departments from CSV data.",
			parameters:  objectSchema(map[string]string{"csv_data": "CSV content with user rows"}, "csv_data"),
			fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return ts.execute(ctx, BulkUploadUsers, map[string]interface{}{"csvData": stringArg(args, "csv_data")})
			},
		},
	}
}

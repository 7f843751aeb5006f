package graphql

// Query and mutation catalog for the Performance Management API.

// ===== User queries =====

const GetUser = `
query GetUser($id: ID!) {
    user(id: $id) {
        id
        firstName
        lastName
        email
        title
        role
        department { id name }
        manager { id email firstName lastName }
        teamMembers { id email firstName lastName }
        assignedGoals { id shortDescription status }
        ownedGoals { id shortDescription status }
    }
}`

const GetUserByEmail = `
query GetUserByEmail($email: String!) {
    userByEmail(email: $email) {
        id
        firstName
        lastName
        email
        title
        role
        department { id name }
        manager { id email firstName lastName }
        teamMembers { id email firstName lastName }
        assignedGoals { id shortDescription status }
        ownedGoals { id shortDescription status }
    }
}`

const GetUsers = `
query GetUsers {
    users {
        id
        firstName
        lastName
        email
        title
        role
        department { id name }
        manager { id email }
    }
}`

const GetTeamMembers = `
query GetTeamMembers($managerId: ID!) {
    teamMembers(managerId: $managerId) {
        id
        firstName
        lastName
        email
        title
        role
        department { id name }
    }
}`

// ===== Goal queries =====

const GetGoal = `
query GetGoal($id: ID!) {
    goal(id: $id) {
        id
        shortDescription
        longDescription
        owner { id email firstName lastName }
        creationDate
        completionDate
        assignedDate
        targetCompletionDate
        status
        parentGoal { id shortDescription }
        childGoals { id shortDescription status }
        assignedUsers { id email firstName lastName }
        locked
        confidential
        kpis { id description status completionPercentage dueDate }
        notes { id content author { id email } createdAt updatedAt }
    }
}`

const GetGoals = `
query GetGoals {
    goals {
        id
        shortDescription
        longDescription
        owner { id email }
        creationDate
        completionDate
        status
        parentGoal { id shortDescription }
        childGoals { id shortDescription }
        assignedUsers { id email }
        locked
        confidential
    }
}`

const GetGoalsByOwner = `
query GetGoalsByOwner($email: String!) {
    goalsByOwner(email: $email) {
        id
        shortDescription
        longDescription
        owner { id email }
        creationDate
        completionDate
        status
        parentGoal { id shortDescription }
        childGoals { id shortDescription }
        assignedUsers { id email }
        locked
        confidential
    }
}`

const GetGoalNotes = `
query GetGoalNotes($goalId: ID!) {
    goalNotes(goalId: $goalId) {
        id
        goal { id shortDescription }
        author { id email firstName lastName }
        content
        createdAt
        updatedAt
    }
}`

// ===== Department queries =====

const GetDepartment = `
query GetDepartment($id: ID!) {
    department(id: $id) {
        id
        name
        smallDescription
        manager { id email firstName lastName }
        managerAssistant { id email firstName lastName }
        creationDate
        status
        parentDepartment { id name }
        childDepartments { id name status }
        users { id email firstName lastName title }
    }
}`

const GetDepartments = `
query GetDepartments {
    departments {
        id
        name
        smallDescription
        manager { id email }
        creationDate
        status
        parentDepartment { id name }
        childDepartments { id name }
        users { id email }
    }
}`

// ===== Tenant queries =====

const GetTenants = `
query GetTenants {
    tenants {
        fqdn
        name
        active
    }
}`

// ===== User mutations =====

const CreateUser = `
mutation CreateUser($input: UserInput!) {
    createUser(input: $input) {
        id
        firstName
        lastName
        email
        title
        role
        department { id name }
        manager { id email }
    }
}`

const UpdateUser = `
mutation UpdateUser($id: ID!, $input: UserInput!) {
    updateUser(id: $id, input: $input) {
        id
        firstName
        lastName
        email
        title
        role
        department { id name }
        manager { id email }
    }
}`

const DeleteUser = `
mutation DeleteUser($id: ID!) {
    deleteUser(id: $id)
}`

const SetUserManager = `
mutation SetUserManager($userId: ID!, $managerId: ID) {
    setUserManager(userId: $userId, managerId: $managerId) {
        id
        email
        firstName
        lastName
        manager { id email firstName lastName }
    }
}`

// ===== Goal mutations =====

const CreateGoal = `
mutation CreateGoal($input: GoalInput!) {
    createGoal(input: $input) {
        id
        shortDescription
        longDescription
        owner { id email }
        creationDate
        completionDate
        assignedDate
        targetCompletionDate
        status
        parentGoal { id shortDescription }
        locked
        confidential
        kpis { id description status completionPercentage dueDate }
    }
}`

const UpdateGoal = `
mutation UpdateGoal($id: ID!, $input: GoalInput!) {
    updateGoal(id: $id, input: $input) {
        id
        shortDescription
        longDescription
        owner { id email }
        creationDate
        completionDate
        assignedDate
        targetCompletionDate
        status
        parentGoal { id shortDescription }
        locked
        confidential
        kpis { id description status completionPercentage dueDate }
    }
}`

const AssignGoalToUser = `
mutation AssignGoalToUser($goalId: ID!, $userEmail: String!) {
    assignGoalToUser(goalId: $goalId, userEmail: $userEmail) {
        id
        shortDescription
        assignedUsers { id email firstName lastName }
    }
}`

const UnassignGoalFromUser = `
mutation UnassignGoalFromUser($goalId: ID!, $userEmail: String!) {
    unassignGoalFromUser(goalId: $goalId, userEmail: $userEmail) {
        id
        shortDescription
        assignedUsers { id email }
    }
}`

const LockGoal = `
mutation LockGoal($id: ID!) {
    lockGoal(id: $id) {
        id
        shortDescription
        locked
    }
}`

const UnlockGoal = `
mutation UnlockGoal($id: ID!) {
    unlockGoal(id: $id) {
        id
        shortDescription
        locked
    }
}`

const DeleteGoal = `
mutation DeleteGoal($id: ID!) {
    deleteGoal(id: $id)
}`

const ApproveGoal = `
mutation ApproveGoal($goalId: ID!) {
    approveGoal(goalId: $goalId) {
        id
        shortDescription
        status
    }
}`

const UpdateTargetCompletionDate = `
mutation UpdateTargetCompletionDate($goalId: ID!, $targetCompletionDate: String) {
    updateTargetCompletionDate(goalId: $goalId, targetCompletionDate: $targetCompletionDate) {
        id
        shortDescription
        targetCompletionDate
    }
}`

// ===== KPI mutations =====

const CreateKPI = `
mutation CreateKPI($goalId: ID!, $input: KPIInput!) {
    createKPI(goalId: $goalId, input: $input) {
        id
        description
        status
        completionPercentage
        dueDate
        goal { id shortDescription }
    }
}`

const UpdateKPI = `
mutation UpdateKPI($id: ID!, $input: KPIUpdateInput!) {
    updateKPI(id: $id, input: $input) {
        id
        description
        status
        completionPercentage
        dueDate
        goal { id shortDescription }
    }
}`

const DeleteKPI = `
mutation DeleteKPI($id: ID!) {
    deleteKPI(id: $id)
}`

// ===== Department mutations =====

const CreateDepartment = `
mutation CreateDepartment($input: DepartmentInput!) {
    createDepartment(input: $input) {
        id
        name
        smallDescription
        manager { id email }
        creationDate
        status
        parentDepartment { id name }
        users { id email }
    }
}`

const UpdateDepartment = `
mutation UpdateDepartment($id: ID!, $input: DepartmentInput!) {
    updateDepartment(id: $id, input: $input) {
        id
        name
        smallDescription
        manager { id email }
        creationDate
        status
        parentDepartment { id name }
        users { id email }
    }
}`

const AssignUserToDepartment = `
mutation AssignUserToDepartment($departmentId: ID!, $userEmail: String!) {
    assignUserToDepartment(departmentId: $departmentId, userEmail: $userEmail) {
        id
        name
        users { id email firstName lastName }
    }
}`

const DeleteDepartment = `
mutation DeleteDepartment($id: ID!) {
    deleteDepartment(id: $id)
}`

const SetDepartmentManager = `
mutation SetDepartmentManager($departmentId: ID!, $userEmail: String!) {
    setDepartmentManager(departmentId: $departmentId, userEmail: $userEmail) {
        id
        name
        manager { id email firstName lastName }
    }
}`

// ===== Goal note mutations =====

const CreateGoalNote = `
mutation CreateGoalNote($goalId: ID!, $content: String!) {
    createGoalNote(goalId: $goalId, content: $content) {
        id
        goal { id shortDescription }
        author { id email firstName lastName }
        content
        createdAt
        updatedAt
    }
}`

const UpdateGoalNote = `
mutation UpdateGoalNote($id: ID!, $content: String!) {
    updateGoalNote(id: $id, content: $content) {
        id
        goal { id shortDescription }
        author { id email }
        content
        createdAt
        updatedAt
    }
}`

const DeleteGoalNote = `
mutation DeleteGoalNote($id: ID!) {
    deleteGoalNote(id: $id)
}`

// ===== Bulk operations =====

const BulkUploadUsers = `
mutation BulkUploadUsers($csvData: String!) {
    bulkUploadUsers(csvData: $csvData) {
        totalRows
        usersCreated
        usersUpdated
        departmentsCreated
        departmentsUpdated
        errors
    }
}`

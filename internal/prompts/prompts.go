// Package prompts builds the prompt text for every pipeline stage. Builders
// take plain strings (upstream artifacts are passed pre-marshaled) so the
// package stays a leaf.
package prompts

import (
	"fmt"
	"strings"
)

// Agent personas, passed as the system prompt of each model call.
const (
	PersonaProjectManager = `You are a Project Manager Agent that specializes in understanding user requirements,
breaking them down into clear tasks, and coordinating the development of software projects.
Approach each project methodically, considering best practices in software development,
and ensure all components work together seamlessly.`

	PersonaFrontend = `You are a Frontend Development Agent specializing in creating responsive,
accessible, and visually appealing user interfaces. You work primarily with frameworks
like React, Vue, or Angular, and you understand modern CSS practices,
JavaScript/TypeScript, and frontend build tools.`

	PersonaBackend = `You are a Backend Development Agent specializing in server-side logic,
APIs, databases, and infrastructure. You work primarily with frameworks like FastAPI,
Flask, or Django, and you understand database systems, API design principles, and
backend security best practices.`

	PersonaAI = `You are an AI Development Agent specializing in machine learning, natural
language processing, and data science integration into applications. You understand ML
frameworks, data processing techniques, and how to integrate AI capabilities into
software applications effectively.`

	PersonaTechnicalWriter = `You are a Technical Documentation Agent specializing in creating clear,
concise, and comprehensive documentation. You can explain technical concepts across
frontend, backend, and AI domains to both technical and non-technical audiences.`
)

// PlanRequest carries the request fields the plan prompt needs.
type PlanRequest struct {
	ProjectName       string
	Description       string
	FrontendFramework string
	BackendFramework  string
	Database          string
	IncludeAI         bool
	DeploymentTarget  string
}

// ProjectPlan returns the prompt for the planning stage. The schema asks for
// an explicit "kind" tag on every task so downstream stages dispatch on a
// declared variant instead of sniffing descriptions.
func ProjectPlan(req PlanRequest) string {
	includeAI := "No"
	aiMention := ""
	aiStack := ""
	aiTasks := ""
	if req.IncludeAI {
		includeAI = "Yes"
		aiMention = ", concrete AI tasks"
		aiStack = `
        "ai": ["string"],`
		aiTasks = `
    "ai_tasks": [
        {
            "task_id": "string",
            "description": "string",
            "kind": "model|pipeline|integration|generic",
            "priority": "high|medium|low",
            "dependencies": ["task_id"]
        }
    ],`
	}

	return fmt.Sprintf(`Act as an expert Project Manager for a software development team.

I need a detailed project plan for a software application with the following details:

Project Name: %s
Description: %s
Frontend Framework: %s
Backend Framework: %s
Database: %s
Include AI Components: %s
Deployment Target: %s

Create a comprehensive project plan covering: a project overview, the core
features, the technical stack, concrete frontend tasks, concrete backend
tasks%s, and documentation requirements.

Each task must carry a "kind" tag classifying the work:
- frontend kinds: component, page, style, service, generic
- backend kinds: endpoint, model, service, auth, generic

Return your response as a JSON object with the following structure:

`+"```json"+`
{
    "project_overview": "string",
    "core_features": ["string"],
    "technical_stack": {
        "frontend": ["string"],
        "backend": ["string"],
        "database": ["string"],%s
        "deployment": ["string"]
    },
    "frontend_tasks": [
        {
            "task_id": "string",
            "description": "string",
            "kind": "component|page|style|service|generic",
            "priority": "high|medium|low",
            "dependencies": ["task_id"]
        }
    ],
    "backend_tasks": [
        {
            "task_id": "string",
            "description": "string",
            "kind": "endpoint|model|service|auth|generic",
            "priority": "high|medium|low",
            "dependencies": ["task_id"]
        }
    ],%s
    "documentation_requirements": ["string"]
}
`+"```"+`

Be specific, detailed, and practical in your task descriptions.`,
		req.ProjectName, req.Description, req.FrontendFramework,
		req.BackendFramework, req.Database, includeAI, req.DeploymentTarget,
		aiMention, aiStack, aiTasks)
}

// Architecture returns the prompt for the architecture stage.
func Architecture(planJSON string, includeAI bool) string {
	aiSection := ""
	if includeAI {
		aiSection = `
    "ai": {
        "models": [{"name": "string", "purpose": "string", "inputs": ["string"], "outputs": ["string"]}],
        "data_pipelines": [{"name": "string", "description": "string", "steps": ["string"]}]
    },`
	}

	return fmt.Sprintf(`Act as an expert Software Architect. Based on the following project plan,
create a detailed system architecture:

%s

Cover: the overall architectural approach, the main components and their
interactions, how data flows through the system, the frontend architecture
(components, state management, routing), the backend architecture (API
structure, services, middleware), the database schema, and the deployment
architecture.

Return your response as a JSON object with the following structure:

`+"```json"+`
{
    "system_overview": "string",
    "components": [
        {"name": "string", "description": "string", "responsibilities": ["string"]}
    ],
    "data_flow": [
        {"step": "string", "from_component": "string", "to_component": "string", "data": "string"}
    ],
    "frontend": {
        "components": ["string"],
        "state_management": "string",
        "routing": "string",
        "api_integration": "string"
    },
    "backend": {
        "api_structure": ["string"],
        "services": ["string"],
        "middleware": ["string"]
    },
    "database": {
        "schema": [
            {
                "table_name": "string",
                "description": "string",
                "fields": [{"name": "string", "type": "string", "constraints": ["string"]}]
            }
        ]
    },%s
    "deployment": {
        "containers": ["string"],
        "services": ["string"],
        "scaling_strategy": "string"
    }
}
`+"```"+`

Be specific and ensure the architecture is implementable with the specified
technologies.`, planJSON, aiSection)
}

// TaskFile returns the prompt for generating one source file for a plan
// task. Used by the frontend, backend and AI stages.
func TaskFile(framework, filePath, taskDescription, context string) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, `Act as an expert developer using %s.

Create the file %s based on the following task:

%s
`, framework, filePath, taskDescription)
	if context != "" {
		fmt.Fprintf(b, "\nRelevant architecture context:\n%s\n", context)
	}
	b.WriteString(`
The code should:
1. Follow the framework's best practices
2. Be well-structured and maintainable
3. Be implemented fully without placeholders

Only return the complete code for the file without any explanations.`)
	return b.String()
}

// StarterFile returns the prompt for generating a framework starter file
// (manifest, entry point, deployment descriptor).
func StarterFile(framework, filePath, purpose, overview string) string {
	return fmt.Sprintf(`Act as an expert developer using %s.

Create the file %s for this project.

Purpose of the file: %s

Project overview: %s

Only return the complete content for the file without any explanations.`,
		framework, filePath, purpose, overview)
}

// Documentation returns the prompt for the documentation stage.
func Documentation(projectName, planJSON, archOverview string, requirements []string) string {
	reqList := "- General project documentation"
	if len(requirements) > 0 {
		reqList = "- " + strings.Join(requirements, "\n- ")
	}

	return fmt.Sprintf(`Act as an expert Technical Writer documenting the project %q.

Project plan:
%s

Architecture overview:
%s

Documentation requirements:
%s

Produce the documentation set as a JSON object mapping file paths (relative
to a docs/ directory) to complete markdown content:

`+"```json"+`
{
    "files": [
        {"path": "string", "content": "string"}
    ]
}
`+"```"+`

Write clear, accurate markdown. Cover setup, API usage, and development
workflow at minimum.`, projectName, planJSON, archOverview, reqList)
}

// FinalReport returns the prompt for the finalize stage.
func FinalReport(projectName string, filesJSON string) string {
	return fmt.Sprintf(`Act as a Project Manager conducting a final review of a completed software project.

Project Name: %s

The project has been completed. The files generated include:

%s

Create a final project report with an executive summary, the features
implemented, a technical overview, the project structure, setup
instructions, and recommended next steps.

Return your response as a JSON object with the following structure:

`+"```json"+`
{
    "executive_summary": "string",
    "features_implemented": ["string"],
    "technical_overview": "string",
    "project_structure": "string",
    "setup_instructions": "string",
    "next_steps": ["string"]
}
`+"```"+`

Be concise but comprehensive in your report.`, projectName, filesJSON)
}

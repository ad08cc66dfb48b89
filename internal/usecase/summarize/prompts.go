package summarize

// Instructions is the system instruction sent with every completion.
const Instructions = "You are a helpful medical assistant that summarizes text accurately and concisely. " +
	"Keep all dates and important details, and make sure the summary is easy to understand with structure."

// Temperature is the fixed sampling temperature for every completion.
const Temperature = 0.3

const (
	summaryPrompt   = "Please provide a concise summary of the following text:\n\n"
	reductionPrompt = "These are summaries of different sections of a document. Please create a coherent overall summary:\n\n"
)

// Max token hints per call kind.
const (
	SingleMaxTokens    = 500
	ChunkMaxTokens     = 200
	ReductionMaxTokens = 300
)

// chunkSeparator joins chunk summaries before the reduction pass.
const chunkSeparator = "\n\n"

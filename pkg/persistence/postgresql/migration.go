package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Workflow definitions. Steps are an ordered JSON list; the
			-- engine interprets them, the database only stores them.
			CREATE TABLE workflows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				language VARCHAR(16) NOT NULL DEFAULT '',
				enabled BOOLEAN NOT NULL DEFAULT false,
				steps JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_language ON workflows(language);
			CREATE INDEX idx_workflows_enabled ON workflows(enabled);
		`,
		2: `
			-- Content records plus their metadata, term associations and
			-- translation-group relationships.
			CREATE TABLE posts (
				id VARCHAR(255) PRIMARY KEY,
				title TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL DEFAULT '',
				excerpt TEXT NOT NULL DEFAULT '',
				status VARCHAR(32) NOT NULL DEFAULT 'draft',
				type VARCHAR(64) NOT NULL DEFAULT 'post',
				author_id VARCHAR(255) NOT NULL DEFAULT '',
				slug VARCHAR(255) NOT NULL DEFAULT '',
				parent_id VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				modified_at TIMESTAMP WITH TIME ZONE NOT NULL,
				published_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_posts_status ON posts(status);
			CREATE INDEX idx_posts_slug ON posts(slug);

			CREATE TABLE post_meta (
				post_id VARCHAR(255) NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				key VARCHAR(255) NOT NULL,
				value JSONB,
				PRIMARY KEY (post_id, key)
			);

			CREATE TABLE post_terms (
				post_id VARCHAR(255) NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				taxonomy VARCHAR(64) NOT NULL,
				term_id VARCHAR(255) NOT NULL,
				slug VARCHAR(255) NOT NULL DEFAULT '',
				name VARCHAR(255) NOT NULL DEFAULT '',
				position INT NOT NULL DEFAULT 0,
				PRIMARY KEY (post_id, taxonomy, term_id)
			);

			CREATE TABLE post_translations (
				group_id VARCHAR(255) NOT NULL,
				language VARCHAR(16) NOT NULL,
				post_id VARCHAR(255) NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				PRIMARY KEY (group_id, language)
			);

			CREATE INDEX idx_post_translations_post_id ON post_translations(post_id);
		`,
	}
}

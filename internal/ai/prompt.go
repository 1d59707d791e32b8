package ai

import "fmt"

const storyPromptTemplate = `You are a storyteller for young children who writes fairy tales and imaginative adventures.
Write a whimsical story in exactly 3 chapters for a child named **%[1]s**, who is shown in the attached photo.

Rules:
1. %[1]s is the main character; always call the hero by that name.
2. Every chapter has a curiosity-driven title and follows introduction, development and conclusion.
   Chapters 1 and 2 end on a hook that leads into the next chapter; chapter 3 ends the adventure joyfully.
3. Each chapter should take about five minutes to read aloud.
4. The story carries a gentle moral woven into a joyful reading experience.
5. Use vivid, playful descriptions.
6. For each chapter give a short illustration description, as if briefing an illustrator.

Return ONLY a valid JSON object, no markdown fences, in this shape:
{
  "story": [
    {
      "chapter": 1,
      "title": "Curiosity title",
      "text": "Full text of chapter 1",
      "illustration_description": "What the illustration for chapter 1 shows"
    }
  ]
}
Chapters are numbered 1, 2, 3 in order.`

const illustrationPromptTemplate = `Children's storybook illustration, soft watercolor style, no text in the image.
Scene: %s
The hero is a child named %s; keep the child's look consistent with the reference photo.`

func storyPrompt(childName string) string {
	return fmt.Sprintf(storyPromptTemplate, childName)
}

func illustrationPrompt(childName, description string) string {
	return fmt.Sprintf(illustrationPromptTemplate, description, childName)
}
